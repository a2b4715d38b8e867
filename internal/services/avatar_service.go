package services

import (
  "context"
  "crypto/sha256"
  "fmt"
  "image"
  "os"
  "path/filepath"

  "github.com/fogleman/gg"
  "github.com/google/uuid"
  "golang.org/x/image/draw"

  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/utils"
)

const (
  avatarGridSize   = 5
  avatarCellPixels = 32
  avatarOutputSize = 320
)

// AvatarService renders a deterministic identicon for a wallet address and
// records where it was written. The same wallet always yields the same image.
type AvatarService interface {
  GenerateForParticipant(ctx context.Context, participantID uuid.UUID, walletAddress string) (string, error)
}

type avatarService struct {
  log             *logger.Logger
  participantRepo repos.ParticipantRepo
  mediaDir        string
}

func NewAvatarService(log *logger.Logger, participantRepo repos.ParticipantRepo) AvatarService {
  serviceLog := log.With("service", "AvatarService")
  mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
  return &avatarService{
    log:             serviceLog,
    participantRepo: participantRepo,
    mediaDir:        mediaDir,
  }
}

func (as *avatarService) GenerateForParticipant(ctx context.Context, participantID uuid.UUID, walletAddress string) (string, error) {
  img := renderIdenticon(walletAddress)

  dir := filepath.Join(as.mediaDir, "avatars")
  if err := os.MkdirAll(dir, 0o755); err != nil {
    return "", fmt.Errorf("create avatar dir: %w", err)
  }
  filename := fmt.Sprintf("%s.png", participantID)
  fullPath := filepath.Join(dir, filename)
  if err := gg.SavePNG(fullPath, img); err != nil {
    return "", fmt.Errorf("write avatar: %w", err)
  }

  publicPath := "/media/avatars/" + filename
  if err := as.participantRepo.SetAvatarPath(ctx, nil, participantID, publicPath); err != nil {
    return "", err
  }
  as.log.Info("avatar generated", "participant_id", participantID.String(), "path", publicPath)
  return publicPath, nil
}

// renderIdenticon draws a 5x5 horizontally mirrored cell grid keyed off the
// wallet's sha256 digest, then upscales it to the output size.
func renderIdenticon(walletAddress string) image.Image {
  digest := sha256.Sum256([]byte(walletAddress))

  // First three bytes pick the foreground hue; the rest toggle cells.
  fg := [3]float64{
    float64(digest[0])/512 + 0.35,
    float64(digest[1])/512 + 0.35,
    float64(digest[2])/512 + 0.35,
  }

  small := avatarGridSize * avatarCellPixels
  dc := gg.NewContext(small, small)
  dc.SetRGB(0.93, 0.93, 0.95)
  dc.Clear()
  dc.SetRGB(fg[0], fg[1], fg[2])

  half := (avatarGridSize + 1) / 2
  bitIndex := 0
  for col := 0; col < half; col++ {
    for row := 0; row < avatarGridSize; row++ {
      byteIdx := 3 + (bitIndex / 8)
      bit := digest[byteIdx] >> (uint(bitIndex) % 8) & 1
      bitIndex++
      if bit == 0 {
        continue
      }
      x := float64(col * avatarCellPixels)
      y := float64(row * avatarCellPixels)
      dc.DrawRectangle(x, y, avatarCellPixels, avatarCellPixels)
      mirrorCol := avatarGridSize - 1 - col
      if mirrorCol != col {
        dc.DrawRectangle(float64(mirrorCol*avatarCellPixels), y, avatarCellPixels, avatarCellPixels)
      }
    }
  }
  dc.Fill()

  out := image.NewRGBA(image.Rect(0, 0, avatarOutputSize, avatarOutputSize))
  draw.CatmullRom.Scale(out, out.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)
  return out
}
