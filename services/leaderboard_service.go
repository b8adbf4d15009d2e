package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
	"golang.org/x/sync/errgroup"
)

// Leaderboards holds both global rankings for the combined endpoint.
type Leaderboards struct {
	Teams   []models.TeamRankingRow   `json:"teams"`
	Players []models.PlayerRankingRow `json:"players"`
}

type LeaderboardService interface {
	TeamLeaderboard(ctx context.Context) ([]models.TeamRankingRow, error)
	PlayerLeaderboard(ctx context.Context) ([]models.PlayerRankingRow, error)
	Leaderboards(ctx context.Context) (*Leaderboards, error)
}

type leaderboardService struct {
	statsRepo repositories.StatsRepository
	teamRepo  repositories.TeamRepository
	userRepo  repositories.UserRepository
}

func NewLeaderboardService(
	statsRepo repositories.StatsRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
) LeaderboardService {
	return &leaderboardService{
		statsRepo: statsRepo,
		teamRepo:  teamRepo,
		userRepo:  userRepo,
	}
}

// avgPerMatch returns 0 rather than dividing by zero for an empty history.
func avgPerMatch(total, matches int) float64 {
	if matches == 0 {
		return 0
	}
	return float64(total) / float64(matches)
}

// TeamLeaderboard folds the full match_team_stats history into one ranking.
// Nothing is cached or incrementally maintained: every call reflects
// whatever results are committed at read time.
func (s *leaderboardService) TeamLeaderboard(ctx context.Context) ([]models.TeamRankingRow, error) {
	stats, err := s.statsRepo.GetAllTeamStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan team stats: %w", err)
	}

	byTeam := make(map[int]*models.TeamRankingRow)
	order := make([]int, 0)
	for _, st := range stats {
		row, ok := byTeam[st.TeamID]
		if !ok {
			row = &models.TeamRankingRow{TeamID: st.TeamID}
			byTeam[st.TeamID] = row
			order = append(order, st.TeamID)
		}
		row.MatchesPlayed++
		row.TotalKills += st.TeamKills
		row.TotalPoints += st.TotalPoints
		if st.IsBooyah {
			row.Booyahs++
		}
	}

	names, err := s.teamRepo.GetTeamNames(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team names: %w", err)
	}

	rows := make([]models.TeamRankingRow, 0, len(byTeam))
	for _, teamID := range order {
		row := byTeam[teamID]
		row.TeamName = names[teamID]
		row.AvgPoints = avgPerMatch(row.TotalPoints, row.MatchesPlayed)
		rows = append(rows, *row)
	}

	// Points decide the ranking; kills, then booyahs, then team ID break
	// ties so the order is deterministic across scans.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		if rows[i].TotalKills != rows[j].TotalKills {
			return rows[i].TotalKills > rows[j].TotalKills
		}
		if rows[i].Booyahs != rows[j].Booyahs {
			return rows[i].Booyahs > rows[j].Booyahs
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// PlayerLeaderboard ranks players by total kills across all matches. The
// displayed team name is the player's current team, not the historical
// per-match snapshot.
func (s *leaderboardService) PlayerLeaderboard(ctx context.Context) ([]models.PlayerRankingRow, error) {
	stats, err := s.statsRepo.GetAllPlayerStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan player stats: %w", err)
	}

	byPlayer := make(map[int]*models.PlayerRankingRow)
	order := make([]int, 0)
	for _, st := range stats {
		row, ok := byPlayer[st.PlayerID]
		if !ok {
			row = &models.PlayerRankingRow{PlayerID: st.PlayerID}
			byPlayer[st.PlayerID] = row
			order = append(order, st.PlayerID)
		}
		row.MatchesPlayed++
		row.TotalKills += st.Kills
	}

	users, err := s.userRepo.GetByIDs(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player nicknames: %w", err)
	}
	teamNames, err := s.teamRepo.GetCurrentTeamNameByUser(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current team names: %w", err)
	}

	rows := make([]models.PlayerRankingRow, 0, len(byPlayer))
	for _, playerID := range order {
		row := byPlayer[playerID]
		if u, ok := users[playerID]; ok {
			row.Nickname = u.Nickname
		}
		row.TeamName = teamNames[playerID]
		row.AvgKills = avgPerMatch(row.TotalKills, row.MatchesPlayed)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalKills != rows[j].TotalKills {
			return rows[i].TotalKills > rows[j].TotalKills
		}
		// Equal kills in fewer matches ranks higher.
		if rows[i].MatchesPlayed != rows[j].MatchesPlayed {
			return rows[i].MatchesPlayed < rows[j].MatchesPlayed
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// Leaderboards computes both rankings concurrently. Each board is a
// consistent snapshot of its own scan; the two scans may observe different
// commit points, which is acceptable for a read-only dashboard.
func (s *leaderboardService) Leaderboards(ctx context.Context) (*Leaderboards, error) {
	var result Leaderboards

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.TeamLeaderboard(gCtx)
		if err != nil {
			return err
		}
		result.Teams = teams
		return nil
	})
	g.Go(func() error {
		players, err := s.PlayerLeaderboard(gCtx)
		if err != nil {
			return err
		}
		result.Players = players
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}
