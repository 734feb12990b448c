package config

import (
	"errors"
	"flag"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the command-line flags in args.
//
// Flags:
//
//	-t bot token
//	-a remote API base URL
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "10s")
//	-poll-timeout long-poll hold time (e.g., "30s")
//	-occasion-interval occasion callback period (e.g., "1m")
//	-allowed-updates comma separated update kinds, "none" for no kinds
//	-console enable the console reader
//	-d session store DSN
//	-metrics-address metrics endpoint in format [host]:[port]
func parseFlags(args []string) (*StructuredConfig, error) {
	var (
		token            string
		apiAddress       string
		jsonConfigPath   string
		requestTimeout   time.Duration
		pollTimeout      time.Duration
		occasionInterval time.Duration
		allowedUpdates   string
		consoleInput     *bool
		dsn              string
		metricsAddress   NetAddress
	)

	fs := flag.NewFlagSet("bot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&token, "t", "", "Bot token")
	fs.StringVar(&apiAddress, "a", "", "Remote API base URL")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.DurationVar(&pollTimeout, "poll-timeout", 0, "Long-poll hold time (e.g., 30s)")
	fs.DurationVar(&occasionInterval, "occasion-interval", 0, "Occasion period (e.g., 1m)")
	fs.StringVar(&allowedUpdates, "allowed-updates", "", "Comma separated update kinds, none for no kinds")
	fs.BoolFunc("console", "Enable console input", func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		consoleInput = &v
		return nil
	})
	fs.StringVar(&dsn, "d", "", "Session store DSN")
	fs.Var(&metricsAddress, "metrics-address", "Metrics endpoint host:port")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			Token: token,
		},
		Adapter: Adapter{
			HTTPAddress:    apiAddress,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			PollTimeout:      pollTimeout,
			OccasionInterval: occasionInterval,
			AllowedUpdates:   allowedUpdates,
			ConsoleInput:     consoleInput,
		},
		Storage: Storage{
			DB: DB{DSN: dsn},
		},
		Metrics: Metrics{
			Address: metricsAddress.String(),
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
