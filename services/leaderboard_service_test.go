package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scrimhub/scrimhub/models"
)

type mockTeamRepo struct {
	names            map[int]string
	currentTeamNames map[int]string
}

func (m *mockTeamRepo) Create(ctx context.Context, team *models.Team) error { return nil }
func (m *mockTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return nil, nil
}
func (m *mockTeamRepo) List(ctx context.Context, limit, offset int) ([]*models.Team, error) {
	return nil, nil
}
func (m *mockTeamRepo) Update(ctx context.Context, team *models.Team) error { return nil }
func (m *mockTeamRepo) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	return nil
}
func (m *mockTeamRepo) AddMember(ctx context.Context, member *models.TeamMember) error { return nil }
func (m *mockTeamRepo) RemoveMember(ctx context.Context, teamID, userID int) error     { return nil }
func (m *mockTeamRepo) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	return nil, nil
}

func (m *mockTeamRepo) GetTeamNames(ctx context.Context, ids []int) (map[int]string, error) {
	return m.names, nil
}

func (m *mockTeamRepo) GetCurrentTeamNameByUser(ctx context.Context, userIDs []int) (map[int]string, error) {
	return m.currentTeamNames, nil
}

type mockUserRepo struct {
	users map[int]*models.User
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	return nil, nil
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error { return nil }
func (m *mockUserRepo) UpdateAvatarKey(ctx context.Context, userID int, avatarKey *string) error {
	return nil
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []int) (map[int]*models.User, error) {
	return m.users, nil
}

func TestAvgPerMatch(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		matches int
		want    float64
	}{
		{name: "no matches yields zero", total: 0, matches: 0, want: 0},
		{name: "no matches with leftover total yields zero", total: 5, matches: 0, want: 0},
		{name: "single match", total: 18, matches: 1, want: 18},
		{name: "fractional average", total: 5, matches: 2, want: 2.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := avgPerMatch(tc.total, tc.matches); got != tc.want {
				t.Errorf("avgPerMatch(%d, %d) = %v, want %v", tc.total, tc.matches, got, tc.want)
			}
		})
	}
}

func TestTeamLeaderboardAggregatesAndRanks(t *testing.T) {
	statsRepo := newMockStatsRepo()
	statsRepo.allTeamStats = []*models.MatchTeamStats{
		{MatchID: 1, TeamID: 10, Placement: 1, TeamKills: 6, TotalPoints: 18, IsBooyah: true},
		{MatchID: 1, TeamID: 20, Placement: 2, TeamKills: 4, TotalPoints: 13},
		{MatchID: 2, TeamID: 10, Placement: 8, TeamKills: 4, TotalPoints: 7},
		{MatchID: 2, TeamID: 20, Placement: 1, TeamKills: 1, TotalPoints: 13, IsBooyah: true},
	}
	teamRepo := &mockTeamRepo{names: map[int]string{10: "Nova", 20: "Vortex"}}
	svc := NewLeaderboardService(statsRepo, teamRepo, &mockUserRepo{})

	rows, err := svc.TeamLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("TeamLeaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	first := rows[0]
	if first.TeamID != 20 || first.Rank != 1 {
		t.Errorf("first row = %+v, want team 20 at rank 1", first)
	}
	if first.TotalPoints != 26 || first.TotalKills != 5 || first.Booyahs != 1 {
		t.Errorf("team 20 totals = %+v, want 26 points, 5 kills, 1 booyah", first)
	}
	if first.AvgPoints != 13 {
		t.Errorf("team 20 avg points = %v, want 13", first.AvgPoints)
	}
	if first.TeamName != "Vortex" {
		t.Errorf("team 20 name = %q, want Vortex", first.TeamName)
	}

	second := rows[1]
	if second.TeamID != 10 || second.Rank != 2 {
		t.Errorf("second row = %+v, want team 10 at rank 2", second)
	}
	if second.TotalPoints != 25 || second.MatchesPlayed != 2 {
		t.Errorf("team 10 totals = %+v, want 25 points over 2 matches", second)
	}
}

func TestTeamLeaderboardTieBreaks(t *testing.T) {
	statsRepo := newMockStatsRepo()
	statsRepo.allTeamStats = []*models.MatchTeamStats{
		// Equal points; team 30 has more kills and ranks above team 40.
		{MatchID: 1, TeamID: 40, Placement: 3, TeamKills: 2, TotalPoints: 10},
		{MatchID: 1, TeamID: 30, Placement: 5, TeamKills: 4, TotalPoints: 10},
		// Teams 50 and 60 tie on both points (16) and kills (3); team 50's
		// booyah ranks it above.
		{MatchID: 1, TeamID: 50, Placement: 1, TeamKills: 0, TotalPoints: 12, IsBooyah: true},
		{MatchID: 2, TeamID: 50, Placement: 10, TeamKills: 3, TotalPoints: 4},
		{MatchID: 1, TeamID: 60, Placement: 4, TeamKills: 3, TotalPoints: 10},
		{MatchID: 2, TeamID: 60, Placement: 5, TeamKills: 0, TotalPoints: 6},
	}
	svc := NewLeaderboardService(statsRepo, &mockTeamRepo{}, &mockUserRepo{})

	rows, err := svc.TeamLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("TeamLeaderboard: %v", err)
	}

	gotOrder := make([]int, 0, len(rows))
	for _, row := range rows {
		gotOrder = append(gotOrder, row.TeamID)
	}
	wantOrder := []int{50, 60, 30, 40}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("ranking order = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestTeamLeaderboardEmpty(t *testing.T) {
	svc := NewLeaderboardService(newMockStatsRepo(), &mockTeamRepo{}, &mockUserRepo{})

	rows, err := svc.TeamLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("TeamLeaderboard: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want empty leaderboard", rows)
	}
}

func TestPlayerLeaderboardRanksByKills(t *testing.T) {
	statsRepo := newMockStatsRepo()
	statsRepo.allPlayerStats = []*models.MatchPlayerStats{
		{MatchID: 1, PlayerID: 1, TeamID: 10, Kills: 3},
		{MatchID: 1, PlayerID: 2, TeamID: 10, Kills: 2},
		{MatchID: 2, PlayerID: 1, TeamID: 10, Kills: 2},
		// Same total as player 1 but in fewer matches, so ranks above.
		{MatchID: 2, PlayerID: 3, TeamID: 20, Kills: 5},
	}
	userRepo := &mockUserRepo{users: map[int]*models.User{
		1: {ID: 1, Nickname: "rivo"},
		2: {ID: 2, Nickname: "kzx"},
		3: {ID: 3, Nickname: "aceline"},
	}}
	teamRepo := &mockTeamRepo{currentTeamNames: map[int]string{1: "Nova", 2: "Nova", 3: "Vortex"}}
	svc := NewLeaderboardService(statsRepo, teamRepo, userRepo)

	rows, err := svc.PlayerLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("PlayerLeaderboard: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	if rows[0].PlayerID != 3 || rows[0].Rank != 1 {
		t.Errorf("first row = %+v, want player 3 at rank 1", rows[0])
	}
	if rows[0].Nickname != "aceline" || rows[0].TeamName != "Vortex" {
		t.Errorf("first row identity = %+v, want aceline of Vortex", rows[0])
	}
	if rows[0].AvgKills != 5 {
		t.Errorf("player 3 avg kills = %v, want 5", rows[0].AvgKills)
	}

	if rows[1].PlayerID != 1 || rows[1].TotalKills != 5 || rows[1].MatchesPlayed != 2 {
		t.Errorf("second row = %+v, want player 1 with 5 kills over 2 matches", rows[1])
	}
	if rows[1].AvgKills != 2.5 {
		t.Errorf("player 1 avg kills = %v, want 2.5", rows[1].AvgKills)
	}

	if rows[2].PlayerID != 2 || rows[2].Rank != 3 {
		t.Errorf("third row = %+v, want player 2 at rank 3", rows[2])
	}
}

func TestLeaderboardsCombined(t *testing.T) {
	statsRepo := newMockStatsRepo()
	statsRepo.allTeamStats = []*models.MatchTeamStats{
		{MatchID: 1, TeamID: 10, Placement: 1, TeamKills: 6, TotalPoints: 18, IsBooyah: true},
	}
	statsRepo.allPlayerStats = []*models.MatchPlayerStats{
		{MatchID: 1, PlayerID: 1, TeamID: 10, Kills: 6},
	}
	teamRepo := &mockTeamRepo{
		names:            map[int]string{10: "Nova"},
		currentTeamNames: map[int]string{1: "Nova"},
	}
	userRepo := &mockUserRepo{users: map[int]*models.User{1: {ID: 1, Nickname: "rivo"}}}
	svc := NewLeaderboardService(statsRepo, teamRepo, userRepo)

	boards, err := svc.Leaderboards(context.Background())
	if err != nil {
		t.Fatalf("Leaderboards: %v", err)
	}
	if len(boards.Teams) != 1 || len(boards.Players) != 1 {
		t.Fatalf("boards = %+v, want one team row and one player row", boards)
	}
}

func TestLeaderboardsPropagatesScanError(t *testing.T) {
	statsRepo := newMockStatsRepo()
	statsRepo.allErr = errors.New("connection reset")
	svc := NewLeaderboardService(statsRepo, &mockTeamRepo{}, &mockUserRepo{})

	if _, err := svc.Leaderboards(context.Background()); err == nil {
		t.Fatal("expected scan error to propagate")
	}
}
