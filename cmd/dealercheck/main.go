package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/park285/holdem-trainer/internal/dealerfast"
)

func main() {
	baseURL := os.Getenv("DEALER_BASE_URL")
	wsURL := os.Getenv("DEALER_WS_URL")

	if baseURL == "" {
		log.Fatal("DEALER_BASE_URL is required")
	}

	client := dealerfast.NewClient(baseURL,
		dealerfast.WithTimeout(8*time.Second),
	)

	healthy := true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := client.Health(ctx)
	if err != nil {
		log.Printf("/health error: %v", err)
		healthy = false
	} else {
		log.Printf("/health ok: status=%s", health.Status)
	}

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	state, err := client.State(sctx)
	if err != nil {
		log.Printf("/state error: %v", err)
		healthy = false
	} else {
		log.Printf("/state ok: hand=%s street=%s pot=%d action_on=%s", state.HandID, state.Street, state.Pot, state.ActionOn)
	}

	if !healthy {
		log.Fatalf("verdict: dealer unhealthy at %s", baseURL)
	}
	log.Printf("verdict: dealer ok at %s", baseURL)

	if wsURL == "" {
		log.Println("DEALER_WS_URL not set; skipping WS check")
		return
	}

	ws := dealerfast.NewWebSocket(wsURL, 5, time.Second)
	ws.OnConnChange(func(state dealerfast.ConnState) {
		log.Printf("WS state: %s", state)
	})
	ws.OnEvent(func(ev *dealerfast.StateEvent) {
		if ev == nil || ev.State == nil {
			return
		}
		fmt.Printf("WS event type=%s hand=%s street=%s pot=%d\n", ev.Type, ev.State.HandID, ev.State.Street, ev.State.Pot)
	})

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := ws.Connect(cctx); err != nil {
		log.Printf("WS connect error: %v", err)
		return
	}

	// Observe for a short window
	t := time.NewTimer(10 * time.Second)
	<-t.C

	_ = ws.Close(context.Background())
}
