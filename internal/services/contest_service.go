package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/clients/redisx"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// ContestService covers the read side of contests plus the join flow. It is
// also where a wallet address gets resolved to a contest participant; every
// wallet-scoped route goes through ResolveParticipant.
type ContestService interface {
  List(ctx context.Context, statuses []string) ([]*types.Contest, error)
  GetWithGames(ctx context.Context, contestID uuid.UUID) (*ContestDetail, error)
  Join(ctx context.Context, in JoinInput) (*types.ContestParticipant, error)
  ResolveParticipant(ctx context.Context, contestID uuid.UUID, walletAddress string) (*types.ContestParticipant, error)
  ResolveGame(ctx context.Context, contestID uuid.UUID, gameID int) (*types.ContestGameConfig, error)
  MyStatus(ctx context.Context, contestID uuid.UUID, walletAddress string) (*MyStatusResult, error)
  Leaderboard(ctx context.Context, contestID uuid.UUID) ([]LeaderboardEntry, error)
  InvalidateLeaderboard(ctx context.Context, contestID uuid.UUID)
}

type ContestDetail struct {
  Contest  *types.Contest             `json:"contest"`
  Games    []*types.ContestGameConfig `json:"games"`
}

type JoinInput struct {
  ContestID      uuid.UUID
  WalletAddress  string
  JoinTxHash     string
}

type GameStatus struct {
  Config         *types.ContestGameConfig `json:"config"`
  ActiveSession  *types.GameSession       `json:"active_session,omitempty"`
}

type MyStatusResult struct {
  Participant  *types.ContestParticipant `json:"participant"`
  Games        []GameStatus              `json:"games"`
}

type LeaderboardEntry struct {
  Rank              int        `json:"rank"`
  WalletAddress     string     `json:"wallet_address"`
  TotalGamesSolved  int        `json:"total_games_solved"`
  TotalPromptsUsed  int        `json:"total_prompts_used"`
  TotalHintsUsed    int        `json:"total_hints_used"`
  AvatarPath        string     `json:"avatar_path,omitempty"`
  JoinedAt          time.Time  `json:"joined_at"`
  LastSolvedAt      *time.Time `json:"last_solved_at,omitempty"`
}

type contestService struct {
  db               *gorm.DB
  log              *logger.Logger
  contestRepo      repos.ContestRepo
  participantRepo  repos.ParticipantRepo
  userRepo         repos.UserRepo
  gameConfigRepo   repos.GameConfigRepo
  sessionRepo      repos.SessionRepo
  avatarService    AvatarService
  cache            *redisx.Cache
}

func NewContestService(
  db *gorm.DB,
  log *logger.Logger,
  contestRepo repos.ContestRepo,
  participantRepo repos.ParticipantRepo,
  userRepo repos.UserRepo,
  gameConfigRepo repos.GameConfigRepo,
  sessionRepo repos.SessionRepo,
  avatarService AvatarService,
  cache *redisx.Cache,
) ContestService {
  serviceLog := log.With("service", "ContestService")
  return &contestService{
    db:              db,
    log:             serviceLog,
    contestRepo:     contestRepo,
    participantRepo: participantRepo,
    userRepo:        userRepo,
    gameConfigRepo:  gameConfigRepo,
    sessionRepo:     sessionRepo,
    avatarService:   avatarService,
    cache:           cache,
  }
}

func (cs *contestService) List(ctx context.Context, statuses []string) ([]*types.Contest, error) {
  if len(statuses) == 0 {
    statuses = []string{types.ContestStatusOpen, types.ContestStatusRunning}
  }
  for _, status := range statuses {
    switch status {
    case types.ContestStatusOpen, types.ContestStatusRunning, types.ContestStatusFinished:
    default:
      return nil, apierr.Validation(fmt.Sprintf("unknown contest status %q", status))
    }
  }
  return cs.contestRepo.ListByStatuses(ctx, nil, statuses)
}

func (cs *contestService) GetWithGames(ctx context.Context, contestID uuid.UUID) (*ContestDetail, error) {
  contest, err := cs.contestRepo.GetByID(ctx, nil, contestID)
  if err != nil {
    return nil, err
  }
  if contest == nil {
    return nil, apierr.NotFound("contest not found")
  }
  games, err := cs.gameConfigRepo.ListByContest(ctx, nil, contestID)
  if err != nil {
    return nil, err
  }
  return &ContestDetail{Contest: contest, Games: games}, nil
}

func (cs *contestService) Join(ctx context.Context, in JoinInput) (*types.ContestParticipant, error) {
  wallet := strings.ToLower(strings.TrimSpace(in.WalletAddress))
  if wallet == "" {
    return nil, apierr.Validation("walletAddress is required")
  }
  if strings.TrimSpace(in.JoinTxHash) == "" {
    return nil, apierr.Validation("joinTxHash is required")
  }

  contest, err := cs.contestRepo.GetByID(ctx, nil, in.ContestID)
  if err != nil {
    return nil, err
  }
  if contest == nil {
    return nil, apierr.NotFound("contest not found")
  }
  if contest.Status == types.ContestStatusFinished {
    return nil, apierr.Conflict("contest is no longer open for joining")
  }

  existing, err := cs.participantRepo.ListByContest(ctx, nil, in.ContestID)
  if err != nil {
    return nil, err
  }
  if contest.MaxPlayers > 0 && len(existing) >= contest.MaxPlayers {
    return nil, apierr.Conflict("contest is full")
  }

  var participant *types.ContestParticipant
  err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    user, err := cs.getOrCreateUser(ctx, tx, wallet)
    if err != nil {
      return err
    }
    if err := cs.userRepo.TouchLastLogin(ctx, tx, user.ID); err != nil {
      return err
    }
    created, err := cs.participantRepo.Create(ctx, tx, &types.ContestParticipant{
      ContestID:     in.ContestID,
      UserID:        user.ID,
      WalletAddress: wallet,
      JoinTxHash:    strings.TrimSpace(in.JoinTxHash),
      JoinedAt:      time.Now().UTC(),
    })
    if err != nil {
      if errors.Is(err, gorm.ErrDuplicatedKey) {
        return apierr.Conflict("wallet already joined this contest")
      }
      return err
    }
    participant = created
    return nil
  })
  if err != nil {
    return nil, err
  }

  // Avatar generation is cosmetic; a failure never unwinds the join.
  if cs.avatarService != nil {
    if _, err := cs.avatarService.GenerateForParticipant(ctx, participant.ID, wallet); err != nil {
      cs.log.Warn("avatar generation failed", "participant_id", participant.ID.String(), "error", err)
    }
  }
  cs.InvalidateLeaderboard(ctx, in.ContestID)
  return participant, nil
}

func (cs *contestService) getOrCreateUser(ctx context.Context, tx *gorm.DB, wallet string) (*types.User, error) {
  user, err := cs.userRepo.GetByWallet(ctx, tx, wallet)
  if err != nil {
    return nil, err
  }
  if user != nil {
    return user, nil
  }
  created, err := cs.userRepo.Create(ctx, tx, &types.User{WalletAddress: wallet})
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    // Lost a first-login race; the row exists now.
    return cs.userRepo.GetByWallet(ctx, tx, wallet)
  }
  return created, err
}

func (cs *contestService) ResolveParticipant(ctx context.Context, contestID uuid.UUID, walletAddress string) (*types.ContestParticipant, error) {
  wallet := strings.ToLower(strings.TrimSpace(walletAddress))
  user, err := cs.userRepo.GetByWallet(ctx, nil, wallet)
  if err != nil {
    return nil, err
  }
  if user == nil {
    return nil, apierr.AccessDenied("wallet has not joined this contest")
  }
  participant, err := cs.participantRepo.GetByContestAndUser(ctx, nil, contestID, user.ID)
  if err != nil {
    return nil, err
  }
  if participant == nil {
    return nil, apierr.AccessDenied("wallet has not joined this contest")
  }
  return participant, nil
}

// ResolveGame maps the public numeric game id to its active config row.
func (cs *contestService) ResolveGame(ctx context.Context, contestID uuid.UUID, gameID int) (*types.ContestGameConfig, error) {
  config, err := cs.gameConfigRepo.GetActiveByContestAndGameID(ctx, nil, contestID, gameID)
  if err != nil {
    return nil, err
  }
  if config == nil {
    return nil, apierr.NotFound("game not found for this contest")
  }
  return config, nil
}

func (cs *contestService) MyStatus(ctx context.Context, contestID uuid.UUID, walletAddress string) (*MyStatusResult, error) {
  participant, err := cs.ResolveParticipant(ctx, contestID, walletAddress)
  if err != nil {
    return nil, err
  }
  configs, err := cs.gameConfigRepo.ListByContest(ctx, nil, contestID)
  if err != nil {
    return nil, err
  }
  games := make([]GameStatus, 0, len(configs))
  for _, config := range configs {
    status := GameStatus{Config: config}
    session, err := cs.sessionRepo.GetActive(ctx, nil, participant.ID, config.ID)
    if err != nil {
      return nil, err
    }
    status.ActiveSession = session
    games = append(games, status)
  }
  return &MyStatusResult{Participant: participant, Games: games}, nil
}

func leaderboardKey(contestID uuid.UUID) string {
  return "leaderboard:" + contestID.String()
}

func (cs *contestService) Leaderboard(ctx context.Context, contestID uuid.UUID) ([]LeaderboardEntry, error) {
  key := leaderboardKey(contestID)
  var cached []LeaderboardEntry
  if hit, err := cs.cache.GetJSON(ctx, key, &cached); err != nil {
    cs.log.Warn("leaderboard cache read failed", "error", err)
  } else if hit {
    return cached, nil
  }

  contest, err := cs.contestRepo.GetByID(ctx, nil, contestID)
  if err != nil {
    return nil, err
  }
  if contest == nil {
    return nil, apierr.NotFound("contest not found")
  }

  participants, err := cs.participantRepo.ListByContest(ctx, nil, contestID)
  if err != nil {
    return nil, err
  }
  entries := make([]LeaderboardEntry, 0, len(participants))
  for i, p := range participants {
    entries = append(entries, LeaderboardEntry{
      Rank:             i + 1,
      WalletAddress:    p.WalletAddress,
      TotalGamesSolved: p.TotalGamesSolved,
      TotalPromptsUsed: p.TotalPromptsUsed,
      TotalHintsUsed:   p.TotalHintsUsed,
      AvatarPath:       p.AvatarPath,
      JoinedAt:         p.JoinedAt,
      LastSolvedAt:     p.LastSolvedAt,
    })
  }
  if err := cs.cache.SetJSON(ctx, key, entries); err != nil {
    cs.log.Warn("leaderboard cache write failed", "error", err)
  }
  return entries, nil
}

func (cs *contestService) InvalidateLeaderboard(ctx context.Context, contestID uuid.UUID) {
  if err := cs.cache.Delete(ctx, leaderboardKey(contestID)); err != nil {
    cs.log.Warn("leaderboard cache invalidation failed", "error", err)
  }
}
