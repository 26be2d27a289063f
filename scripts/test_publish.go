//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

type GeocodeRetryEvent struct {
	ListingID string `json:"listing_id"`
	Address   string `json:"address"`
	Attempt   int    `json:"attempt"`
}

type ListingEvent struct {
	Type      string `json:"type"`
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"owner_id"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	natsURL := flag.String("nats", "", "NATS URL to wait for listing.updated (optional)")
	listingID := flag.String("listing", "", "ID of a listing stored with geometry [0,0]")
	address := flag.String("address", "Aspen, USA", "Address the worker will geocode")
	flag.Parse()

	if *listingID == "" {
		log.Fatal("-listing is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	var updates chan *nats.Msg
	if *natsURL != "" {
		nc, err := nats.Connect(*natsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer nc.Drain()

		updates = make(chan *nats.Msg, 16)
		if _, err := nc.ChanSubscribe("listing.updated", updates); err != nil {
			log.Fatalf("Failed to subscribe: %v", err)
		}
	}

	event := GeocodeRetryEvent{
		ListingID: *listingID,
		Address:   *address,
		Attempt:   1,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:listing:geocode",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: stream:listing:geocode\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Listing ID: %s\n", event.ListingID)
	fmt.Printf("   Address: %s\n", event.Address)

	if updates == nil {
		return
	}

	fmt.Printf("\nWaiting for listing.updated...\n")
	timeout := time.After(30 * time.Second)
	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for listing.updated")
			return
		case msg := <-updates:
			var updated ListingEvent
			if err := json.Unmarshal(msg.Data, &updated); err != nil {
				continue
			}
			if updated.ListingID == event.ListingID {
				pretty, _ := json.MarshalIndent(updated, "", "  ")
				fmt.Printf("Listing geocoded:\n%s\n", pretty)
				return
			}
		}
	}
}
