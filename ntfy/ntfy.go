// Package ntfy pushes a ntfy.sh notification when the bridge goes down.
package ntfy

import (
	"fmt"
	"net/http"
	"strings"
)

type Config struct {
	Topic string `yaml:"topic" envconfig:"NTFY_TOPIC"`
}

type Notify struct {
	topic string
}

func New(config Config) *Notify {
	return &Notify{topic: config.Topic}
}

// Failure announces that the process is shutting down because of err.
func (n *Notify) Failure(err error) {
	if n.topic == "" {
		return
	}

	req, reqErr := http.NewRequest("POST", fmt.Sprintf("https://ntfy.sh/%s", n.topic), strings.NewReader(err.Error()))
	if reqErr != nil {
		return
	}

	req.Header.Set("Title", "caseta2mqtt shutting down")
	req.Header.Set("Tags", "rotating_light,house")
	req.Header.Set("Priority", "4")

	http.DefaultClient.Do(req)
}
