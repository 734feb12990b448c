// Package server runs the operational HTTP endpoint of the bot.
//
// The server implements the worker contract: it serves until its context is
// cancelled and then shuts down gracefully.
package server
