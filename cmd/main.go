package main

import (
  "fmt"
  "os"
  "os/signal"
  "syscall"

  "github.com/sableworks/vaultbreak-backend/internal/app"
)

func main() {
  application, err := app.New()
  if err != nil {
    fmt.Printf("Failed to init app: %v\n", err)
    os.Exit(1)
  }
  defer application.Close()

  application.Start()

  sigCh := make(chan os.Signal, 1)
  signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
  go func() {
    <-sigCh
    application.Log.Info("Shutting down...")
    application.Close()
    os.Exit(0)
  }()

  addr := ":" + application.Cfg.Port
  application.Log.Info("Server listening", "addr", addr)
  if err := application.Run(addr); err != nil {
    application.Log.Error("Server failed", "error", err)
  }
}
