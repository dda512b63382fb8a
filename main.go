package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kr/pretty"

	"caseta2mqtt/bridge"
	"caseta2mqtt/caseta"
	"caseta2mqtt/config"
	"caseta2mqtt/handler"
	"caseta2mqtt/mqtt"
	"caseta2mqtt/ntfy"
	"caseta2mqtt/shutdown"
	"caseta2mqtt/web"
	"caseta2mqtt/zigbee"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Get()
	if err != nil {
		log.Fatalln(err)
	}
	pretty.Println(cfg.Rooms)

	latch := shutdown.NewLatch()

	// MQTT
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		log.Fatalln("Failed to connect to MQTT broker:", err)
	}
	defer client.Disconnect(250)

	// Zigbee2mqtt groups and state
	states := zigbee.NewStateManager(time.Duration(cfg.Zigbee.SceneTTL))
	z2m := zigbee.NewClient(client, cfg.Zigbee.Prefix, states, latch)
	if err := z2m.Subscribe(); err != nil {
		log.Fatalln("Failed to subscribe to zigbee2mqtt:", err)
	}

	// Button gestures
	gestures := handler.New(z2m, states, cfg.Rooms)
	registry := caseta.NewRegistry(gestures, latch, caseta.DefaultTimings())

	// Caseta bridge adapter
	b, err := bridge.Connect(cfg.Bridge)
	if err != nil {
		log.Fatalln("Failed to connect to the bridge adapter:", err)
	}
	latch.Go("bridge listener", func() error {
		return b.Listen(registry)
	})

	// Status server
	if cfg.Web.Address != "" {
		srv := http.Server{
			Addr:    cfg.Web.Address,
			Handler: web.NewServer(states).Router(),
		}
		latch.Go("status server", srv.ListenAndServe)
		log.Printf("Starting status server on %s (PID: %d)\n", cfg.Web.Address, os.Getpid())
	}

	err = latch.Wait()
	log.Println("Shutting down:", err)
	ntfy.New(cfg.NTFY).Failure(err)
}
