package credentials

// ConnectionConfig holds every credential the connectivity managers need.
// It is resolved once at boot and read-only afterwards.
type ConnectionConfig struct {
	// LinkName is the wireless network name (SSID).
	LinkName string
	// LinkSecret is the wireless passphrase.
	LinkSecret string

	// BrokerHost is the MQTT broker hostname or address.
	BrokerHost string
	// BrokerUser is the broker account name (may be empty for anonymous).
	BrokerUser string
	// BrokerSecret is the broker account password.
	BrokerSecret string
	// BrokerPort is the broker TCP port.
	BrokerPort int
	// BrokerTLS selects the secure-transport broker variant.
	BrokerTLS bool
}

// Source identifies which link of the resolution chain produced the config.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceStore   Source = "store"
	SourceEmpty   Source = "empty"
)

// empty reports whether the config carries no usable connection data.
func (c ConnectionConfig) empty() bool {
	return c.LinkName == "" && c.BrokerHost == ""
}
