package config

import (
	"errors"
	"flag"
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

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-base-url externally visible application root URL
//	-cookie-sign-key cookie HMAC signing key
//	-bcrypt-cost bcrypt work factor
//	-secure-cookies mark auth cookies Secure
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-mailer-endpoint mail API endpoint URL
//	-mailer-api-key mail API bearer key
//	-mailer-from sender address for outbound mail
//	-reset-sweep-interval expired reset sweeper interval
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var baseURL string
	var cookieSignKey string
	var bcryptCost int
	var secureCookies bool
	var requestTimeout time.Duration
	var mailerEndpoint string
	var mailerAPIKey string
	var mailerFrom string
	var resetSweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&baseURL, "base-url", "", "Application base URL for links in outbound mail")
	flag.StringVar(&cookieSignKey, "cookie-sign-key", "", "Cookie HMAC signing key")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt work factor")
	flag.BoolVar(&secureCookies, "secure-cookies", false, "Mark auth cookies Secure (HTTPS only)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&mailerEndpoint, "mailer-endpoint", "", "Mail API endpoint URL")
	flag.StringVar(&mailerAPIKey, "mailer-api-key", "", "Mail API bearer key")
	flag.StringVar(&mailerFrom, "mailer-from", "", "Sender address for outbound mail")
	flag.DurationVar(&resetSweepInterval, "reset-sweep-interval", 0, "Expired reset sweeper interval")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			BaseURL:       baseURL,
			CookieSignKey: cookieSignKey,
			BcryptCost:    bcryptCost,
			SecureCookies: secureCookies,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Mailer: Mailer{
			Endpoint: mailerEndpoint,
			APIKey:   mailerAPIKey,
			From:     mailerFrom,
		},
		Workers: Workers{
			ResetSweepInterval: resetSweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
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
