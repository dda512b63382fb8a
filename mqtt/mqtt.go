// Package mqtt sets up the paho connection to the broker.
package mqtt

import (
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

type Config struct {
	Host     string `yaml:"host" envconfig:"MQTT_HOST"`
	Port     int    `yaml:"port" envconfig:"MQTT_PORT"`
	Username string `yaml:"username" envconfig:"MQTT_USERNAME"`
	Password string `yaml:"password" envconfig:"MQTT_PASSWORD"`
	ClientID string `yaml:"client_id" envconfig:"MQTT_CLIENT_ID"`
}

// This is the default message handler, it just prints out the topic and message
var defaultHandler paho.MessageHandler = func(client paho.Client, msg paho.Message) {
	fmt.Printf("TOPIC: %s\n", msg.Topic())
	fmt.Printf("MSG: %s\n", msg.Payload())
}

func Connect(config Config) (paho.Client, error) {
	// A unique suffix keeps a restarted instance from fighting the broker
	// over a stale session.
	clientID := fmt.Sprintf("%s-%s", config.ClientID, uuid.New())

	opts := paho.NewClientOptions().AddBroker(fmt.Sprintf("%s:%d", config.Host, config.Port))
	opts.SetClientID(clientID)
	opts.SetDefaultPublishHandler(defaultHandler)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetOrderMatters(false)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	return client, nil
}
