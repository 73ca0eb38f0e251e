package credentials

import "strconv"

// Compiled-in credential override, injected at build time:
//
//	go build -ldflags "\
//	  -X .../internal/credentials.builtinLinkName=AP-Bringup \
//	  -X .../internal/credentials.builtinLinkSecret=... \
//	  -X .../internal/credentials.builtinBrokerHost=172.16.1.59"
//
// All values default to empty, which disables the override entirely. Port
// and TLS arrive as strings because ldflags can only set string variables.
var (
	builtinLinkName     string
	builtinLinkSecret   string
	builtinBrokerHost   string
	builtinBrokerUser   string
	builtinBrokerSecret string
	builtinBrokerPort   string
	builtinBrokerTLS    string
)

// defaultBrokerPort is used when the override omits the port.
const defaultBrokerPort = 1883

// builtinConfig returns the compiled-in override and whether one was baked
// in at all.
func builtinConfig() (ConnectionConfig, bool) {
	cfg := ConnectionConfig{
		LinkName:     builtinLinkName,
		LinkSecret:   builtinLinkSecret,
		BrokerHost:   builtinBrokerHost,
		BrokerUser:   builtinBrokerUser,
		BrokerSecret: builtinBrokerSecret,
		BrokerPort:   defaultBrokerPort,
	}

	if p, err := strconv.Atoi(builtinBrokerPort); err == nil && p > 0 {
		cfg.BrokerPort = p
	}
	if t, err := strconv.ParseBool(builtinBrokerTLS); err == nil {
		cfg.BrokerTLS = t
	}

	return cfg, !cfg.empty()
}
