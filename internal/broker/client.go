package broker

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-node/internal/credentials"
)

// Client is the minimal MQTT surface the unit needs. Tests script it; the
// production implementation is PahoClient.
type Client interface {
	// Connect performs one protocol handshake.
	Connect() error

	// Publish sends one message.
	Publish(topic string, payload []byte, retained bool) error

	// Connected reports the current session state.
	Connected() bool
}

// Paho connection constants.
const (
	// connectTimeout bounds one handshake attempt.
	connectTimeout = 5 * time.Second

	// publishTimeout bounds one publish acknowledgment wait.
	publishTimeout = 5 * time.Second

	// keepAlive is the MQTT keepalive interval.
	keepAlive = 60 * time.Second
)

// PahoClient wraps paho.mqtt.golang for the node's single broker session.
//
// Reconnect-after-drop is left to paho's auto-reconnect; the bounded retry
// policy in the unit only governs the initial handshake.
type PahoClient struct {
	client   pahomqtt.Client
	clientID string
	qos      byte
}

// NewPahoClient builds a client for the resolved credentials. The LWT is
// registered on the node status topic so the platform sees unexpected
// drops.
func NewPahoClient(creds credentials.ConnectionConfig, nodeID, clientID string, qos byte) *PahoClient {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", creds.BrokerHost, creds.BrokerPort))
	opts.SetClientID(clientID)
	if creds.BrokerUser != "" {
		opts.SetUsername(creds.BrokerUser)
		opts.SetPassword(creds.BrokerSecret)
	}
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetAutoReconnect(true)
	opts.SetWill(Topics{}.NodeStatus(nodeID), buildOfflinePayload(clientID), qos, true)

	return &PahoClient{
		client:   pahomqtt.NewClient(opts),
		clientID: clientID,
		qos:      qos,
	}
}

// Connect implements Client.
func (c *PahoClient) Connect() error {
	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("broker: connect timeout after %v", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("broker: connect: %w", err)
	}
	return nil
}

// Publish implements Client.
func (c *PahoClient) Publish(topic string, payload []byte, retained bool) error {
	if !c.client.IsConnected() {
		return ErrNotConnected
	}
	token := c.client.Publish(topic, c.qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("broker: publish timeout after %v", publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("broker: publish: %w", err)
	}
	return nil
}

// Connected implements Client.
func (c *PahoClient) Connected() bool {
	return c.client.IsConnected()
}
