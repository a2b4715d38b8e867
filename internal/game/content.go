package game

import (
  "os"
  "strings"
  "sync"

  "gopkg.in/yaml.v3"
)

// Content overrides the built-in secret vocabulary and hint ladders. Loaded
// once from GAME_CONTENT_PATH when set; absence or a parse failure falls back
// to the defaults silently, since the defaults are always playable.
type Content struct {
  SecretWords []string            `yaml:"secret_words"`
  Hints       map[string][]string `yaml:"hints"`
}

var (
  contentOnce sync.Once
  content     *Content
)

func loadedContent() *Content {
  contentOnce.Do(func() {
    path := strings.TrimSpace(os.Getenv("GAME_CONTENT_PATH"))
    if path == "" {
      return
    }
    raw, err := os.ReadFile(path)
    if err != nil {
      return
    }
    var c Content
    if err := yaml.Unmarshal(raw, &c); err != nil {
      return
    }
    content = &c
  })
  return content
}
