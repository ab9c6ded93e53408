package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microcms-sync/internal/config"
	"microcms-sync/internal/content"
	"microcms-sync/internal/microcms"
	"microcms-sync/internal/preview"
)

func main() {
	addr := flag.String("addr", "", "listen address (default PREVIEW_ADDR)")
	flag.Parse()

	cfg := config.Load()
	if *addr == "" {
		*addr = cfg.PreviewAddr
	}

	a := content.New(microcms.NewFromConfig(cfg), log.Default())
	srv := preview.New(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("preview listening on %s", *addr)
		if err := srv.Start(*addr); err != nil {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: shutdown: %v", err)
	}
}
