package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
)

type mockMatchRepo struct {
	matches        map[int]*models.Match
	completedIDs   []int
	completeErr    error
	updatedStatus  map[int]models.MatchStatus
	lastMapName    string
	createBatchErr error
}

func newMockMatchRepo(matches ...*models.Match) *mockMatchRepo {
	m := &mockMatchRepo{
		matches:       make(map[int]*models.Match),
		updatedStatus: make(map[int]models.MatchStatus),
	}
	for _, match := range matches {
		m.matches[match.ID] = match
	}
	return m
}

func (m *mockMatchRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error {
	return m.createBatchErr
}

func (m *mockMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, ok := m.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (m *mockMatchRepo) ListByScrim(ctx context.Context, scrimID int) ([]*models.Match, error) {
	return nil, nil
}

func (m *mockMatchRepo) CompleteMatch(ctx context.Context, exec repositories.SQLExecutor, id int, mapName string) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	m.completedIDs = append(m.completedIDs, id)
	m.lastMapName = mapName
	return nil
}

func (m *mockMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus) error {
	m.updatedStatus[id] = status
	return nil
}

type mockRosterRepo struct {
	scrimTeams   []models.ScrimTeam
	scrimPlayers []models.ScrimPlayer
}

func (m *mockRosterRepo) RegisterTeam(ctx context.Context, st *models.ScrimTeam) error   { return nil }
func (m *mockRosterRepo) UnregisterTeam(ctx context.Context, scrimID, teamID int) error  { return nil }
func (m *mockRosterRepo) AddPlayer(ctx context.Context, sp *models.ScrimPlayer) error    { return nil }
func (m *mockRosterRepo) RemovePlayer(ctx context.Context, scrimID, playerID int) error  { return nil }

func (m *mockRosterRepo) ListScrimTeams(ctx context.Context, scrimID int) ([]models.ScrimTeam, error) {
	return m.scrimTeams, nil
}

func (m *mockRosterRepo) ListScrimPlayers(ctx context.Context, scrimID int) ([]models.ScrimPlayer, error) {
	return m.scrimPlayers, nil
}

type teamStatsKey struct{ matchID, teamID int }
type playerStatsKey struct{ matchID, playerID int }

type mockStatsRepo struct {
	teamStats   map[teamStatsKey]models.MatchTeamStats
	playerStats map[playerStatsKey]models.MatchPlayerStats

	playerWriteOrder []int
	failPlayerAfter  int // fail the Nth player upsert when > 0

	allTeamStats   []*models.MatchTeamStats
	allPlayerStats []*models.MatchPlayerStats
	allErr         error
}

func newMockStatsRepo() *mockStatsRepo {
	return &mockStatsRepo{
		teamStats:   make(map[teamStatsKey]models.MatchTeamStats),
		playerStats: make(map[playerStatsKey]models.MatchPlayerStats),
	}
}

func (m *mockStatsRepo) UpsertTeamStats(ctx context.Context, exec repositories.SQLExecutor, stats *models.MatchTeamStats) error {
	m.teamStats[teamStatsKey{stats.MatchID, stats.TeamID}] = *stats
	return nil
}

func (m *mockStatsRepo) UpsertPlayerStats(ctx context.Context, exec repositories.SQLExecutor, stats *models.MatchPlayerStats) error {
	if m.failPlayerAfter > 0 && len(m.playerWriteOrder)+1 >= m.failPlayerAfter {
		return errors.New("simulated write failure")
	}
	m.playerWriteOrder = append(m.playerWriteOrder, stats.PlayerID)
	m.playerStats[playerStatsKey{stats.MatchID, stats.PlayerID}] = *stats
	return nil
}

func (m *mockStatsRepo) DeleteTeamStatsByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	for key := range m.teamStats {
		if key.matchID == matchID {
			delete(m.teamStats, key)
		}
	}
	return nil
}

func (m *mockStatsRepo) DeletePlayerStatsByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	for key := range m.playerStats {
		if key.matchID == matchID {
			delete(m.playerStats, key)
		}
	}
	return nil
}

func (m *mockStatsRepo) GetTeamStatsByMatch(ctx context.Context, matchID int) ([]*models.MatchTeamStats, error) {
	var out []*models.MatchTeamStats
	for key, st := range m.teamStats {
		if key.matchID == matchID {
			copied := st
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockStatsRepo) GetPlayerStatsByMatch(ctx context.Context, matchID int) ([]*models.MatchPlayerStats, error) {
	var out []*models.MatchPlayerStats
	for key, st := range m.playerStats {
		if key.matchID == matchID {
			copied := st
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockStatsRepo) GetAllTeamStats(ctx context.Context) ([]*models.MatchTeamStats, error) {
	return m.allTeamStats, m.allErr
}

func (m *mockStatsRepo) GetAllPlayerStats(ctx context.Context) ([]*models.MatchPlayerStats, error) {
	return m.allPlayerStats, m.allErr
}

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rosterFor(scrimID int, players map[int]int) *mockRosterRepo {
	repo := &mockRosterRepo{}
	seenTeams := make(map[int]bool)
	for playerID, teamID := range players {
		if !seenTeams[teamID] {
			seenTeams[teamID] = true
			repo.scrimTeams = append(repo.scrimTeams, models.ScrimTeam{ScrimID: scrimID, TeamID: teamID})
		}
		repo.scrimPlayers = append(repo.scrimPlayers, models.ScrimPlayer{
			ScrimID:  scrimID,
			TeamID:   teamID,
			PlayerID: playerID,
		})
	}
	return repo
}

func TestSubmitMatchResultComputesPoints(t *testing.T) {
	db, dbMock := newTestDB(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	matchRepo := newMockMatchRepo(&models.Match{ID: 1, ScrimID: 7, Sequence: 1, Status: models.MatchStatusPending})
	rosterRepo := rosterFor(7, map[int]int{1: 10, 2: 10, 3: 10, 4: 20, 5: 20})
	statsRepo := newMockStatsRepo()
	svc := NewResultService(db, matchRepo, rosterRepo, statsRepo, nil, testLogger())

	input := SubmitMatchResultInput{
		MapName: "Bermuda",
		Teams: []TeamResultInput{
			{TeamID: 10, Placement: 1, Kills: map[int]int{1: 3, 2: 2, 3: 1}},
			{TeamID: 20, Placement: 2, Kills: map[int]int{4: 0, 5: 4}},
		},
	}

	match, err := svc.SubmitMatchResult(context.Background(), 1, input)
	if err != nil {
		t.Fatalf("SubmitMatchResult: %v", err)
	}

	if match.Status != models.MatchStatusCompleted {
		t.Errorf("match status = %q, want %q", match.Status, models.MatchStatusCompleted)
	}
	if match.MapName == nil || *match.MapName != "Bermuda" {
		t.Errorf("match map name = %v, want Bermuda", match.MapName)
	}

	winner := statsRepo.teamStats[teamStatsKey{1, 10}]
	if winner.TeamKills != 6 {
		t.Errorf("winner team kills = %d, want 6", winner.TeamKills)
	}
	if winner.PlacementPoints != 12 {
		t.Errorf("winner placement points = %d, want 12", winner.PlacementPoints)
	}
	if winner.TotalPoints != 18 {
		t.Errorf("winner total points = %d, want 18", winner.TotalPoints)
	}
	if !winner.IsBooyah {
		t.Error("winner should be marked booyah")
	}

	runnerUp := statsRepo.teamStats[teamStatsKey{1, 20}]
	if runnerUp.TeamKills != 4 {
		t.Errorf("runner-up team kills = %d, want 4", runnerUp.TeamKills)
	}
	if runnerUp.TotalPoints != 13 {
		t.Errorf("runner-up total points = %d, want 13", runnerUp.TotalPoints)
	}
	if runnerUp.IsBooyah {
		t.Error("runner-up must not be marked booyah")
	}

	// Team kills must equal the sum of that team's player kills.
	for key, ts := range statsRepo.teamStats {
		sum := 0
		for pKey, ps := range statsRepo.playerStats {
			if pKey.matchID == key.matchID && ps.TeamID == key.teamID {
				sum += ps.Kills
			}
		}
		if sum != ts.TeamKills {
			t.Errorf("team %d: player kills sum %d != team kills %d", key.teamID, sum, ts.TeamKills)
		}
	}

	if len(matchRepo.completedIDs) != 1 || matchRepo.completedIDs[0] != 1 {
		t.Errorf("completed match IDs = %v, want [1]", matchRepo.completedIDs)
	}
	if err := dbMock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestSubmitMatchResultResubmissionOverwrites(t *testing.T) {
	db, dbMock := newTestDB(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	matchRepo := newMockMatchRepo(&models.Match{ID: 3, ScrimID: 9, Sequence: 2, Status: models.MatchStatusPending})
	rosterRepo := rosterFor(9, map[int]int{11: 40, 12: 40, 13: 40})
	statsRepo := newMockStatsRepo()
	svc := NewResultService(db, matchRepo, rosterRepo, statsRepo, nil, testLogger())

	first := SubmitMatchResultInput{
		MapName: "Purgatory",
		Teams:   []TeamResultInput{{TeamID: 40, Placement: 1, Kills: map[int]int{11: 5, 12: 2, 13: 1}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 3, first); err != nil {
		t.Fatalf("first submission: %v", err)
	}

	// Corrected scoresheet replaces the previous rows, nothing accumulates.
	second := SubmitMatchResultInput{
		MapName: "Purgatory",
		Teams:   []TeamResultInput{{TeamID: 40, Placement: 2, Kills: map[int]int{11: 4, 12: 2, 13: 1}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 3, second); err != nil {
		t.Fatalf("second submission: %v", err)
	}

	if len(statsRepo.teamStats) != 1 {
		t.Fatalf("team stats rows = %d, want 1", len(statsRepo.teamStats))
	}
	if len(statsRepo.playerStats) != 3 {
		t.Fatalf("player stats rows = %d, want 3", len(statsRepo.playerStats))
	}

	ts := statsRepo.teamStats[teamStatsKey{3, 40}]
	if ts.Placement != 2 || ts.TeamKills != 7 || ts.TotalPoints != 16 || ts.IsBooyah {
		t.Errorf("resubmitted stats = %+v, want placement 2, kills 7, total 16, no booyah", ts)
	}
	if ps := statsRepo.playerStats[playerStatsKey{3, 11}]; ps.Kills != 4 {
		t.Errorf("player 11 kills = %d, want 4 after correction", ps.Kills)
	}
	if err := dbMock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestSubmitMatchResultResubmissionDropsRemovedPlayer(t *testing.T) {
	db, dbMock := newTestDB(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	matchRepo := newMockMatchRepo(&models.Match{ID: 6, ScrimID: 9, Sequence: 1, Status: models.MatchStatusPending})
	rosterRepo := rosterFor(9, map[int]int{11: 40, 12: 40, 13: 40})
	statsRepo := newMockStatsRepo()
	svc := NewResultService(db, matchRepo, rosterRepo, statsRepo, nil, testLogger())

	first := SubmitMatchResultInput{
		MapName: "Purgatory",
		Teams:   []TeamResultInput{{TeamID: 40, Placement: 1, Kills: map[int]int{11: 5, 12: 2, 13: 1}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 6, first); err != nil {
		t.Fatalf("first submission: %v", err)
	}

	// Player 13 was entered by mistake; the correction drops them entirely.
	second := SubmitMatchResultInput{
		MapName: "Purgatory",
		Teams:   []TeamResultInput{{TeamID: 40, Placement: 1, Kills: map[int]int{11: 5, 12: 2}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 6, second); err != nil {
		t.Fatalf("second submission: %v", err)
	}

	if _, ok := statsRepo.playerStats[playerStatsKey{6, 13}]; ok {
		t.Error("dropped player's stats row survived the correction")
	}
	if len(statsRepo.playerStats) != 2 {
		t.Fatalf("player stats rows = %d, want 2", len(statsRepo.playerStats))
	}

	ts := statsRepo.teamStats[teamStatsKey{6, 40}]
	sum := 0
	for key, ps := range statsRepo.playerStats {
		if key.matchID == 6 && ps.TeamID == 40 {
			sum += ps.Kills
		}
	}
	if ts.TeamKills != 7 || sum != ts.TeamKills {
		t.Errorf("team kills = %d, player kills sum = %d, want both 7", ts.TeamKills, sum)
	}
	if err := dbMock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestSubmitMatchResultPlayerWriteOrder(t *testing.T) {
	db, dbMock := newTestDB(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	matchRepo := newMockMatchRepo(&models.Match{ID: 5, ScrimID: 2, Status: models.MatchStatusPending})
	rosterRepo := rosterFor(2, map[int]int{31: 60, 7: 60, 19: 60, 2: 60})
	statsRepo := newMockStatsRepo()
	svc := NewResultService(db, matchRepo, rosterRepo, statsRepo, nil, testLogger())

	input := SubmitMatchResultInput{
		MapName: "Kalahari",
		Teams:   []TeamResultInput{{TeamID: 60, Placement: 4, Kills: map[int]int{31: 1, 7: 0, 19: 2, 2: 3}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 5, input); err != nil {
		t.Fatalf("SubmitMatchResult: %v", err)
	}

	want := []int{2, 7, 19, 31}
	if len(statsRepo.playerWriteOrder) != len(want) {
		t.Fatalf("player writes = %v, want %v", statsRepo.playerWriteOrder, want)
	}
	for i, id := range want {
		if statsRepo.playerWriteOrder[i] != id {
			t.Fatalf("player write order = %v, want %v", statsRepo.playerWriteOrder, want)
		}
	}
}

func TestSubmitMatchResultValidation(t *testing.T) {
	db, _ := newTestDB(t)
	matchRepo := newMockMatchRepo(&models.Match{ID: 1, ScrimID: 1, Status: models.MatchStatusPending})
	rosterRepo := rosterFor(1, map[int]int{1: 10})
	svc := NewResultService(db, matchRepo, rosterRepo, newMockStatsRepo(), nil, testLogger())

	tests := []struct {
		name    string
		input   SubmitMatchResultInput
		wantErr error
	}{
		{
			name:    "missing map name",
			input:   SubmitMatchResultInput{Teams: []TeamResultInput{{TeamID: 10, Placement: 1}}},
			wantErr: ErrMapNameRequired,
		},
		{
			name:    "no teams",
			input:   SubmitMatchResultInput{MapName: "Bermuda"},
			wantErr: ErrNoTeamResults,
		},
		{
			name: "negative kills",
			input: SubmitMatchResultInput{
				MapName: "Bermuda",
				Teams:   []TeamResultInput{{TeamID: 10, Placement: 1, Kills: map[int]int{1: -2}}},
			},
			wantErr: ErrNegativeKills,
		},
		{
			name: "negative placement",
			input: SubmitMatchResultInput{
				MapName: "Bermuda",
				Teams:   []TeamResultInput{{TeamID: 10, Placement: -1}},
			},
			wantErr: ErrInvalidPlacement,
		},
		{
			name: "missing team id",
			input: SubmitMatchResultInput{
				MapName: "Bermuda",
				Teams:   []TeamResultInput{{Placement: 1}},
			},
			wantErr: ErrValidationFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitMatchResult(context.Background(), 1, tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSubmitMatchResultMatchNotFound(t *testing.T) {
	db, _ := newTestDB(t)
	svc := NewResultService(db, newMockMatchRepo(), &mockRosterRepo{}, newMockStatsRepo(), nil, testLogger())

	input := SubmitMatchResultInput{
		MapName: "Bermuda",
		Teams:   []TeamResultInput{{TeamID: 10, Placement: 1, Kills: map[int]int{1: 1}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 99, input); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("error = %v, want %v", err, ErrMatchNotFound)
	}
}

func TestSubmitMatchResultRejectsUnregisteredTeam(t *testing.T) {
	db, _ := newTestDB(t)
	matchRepo := newMockMatchRepo(&models.Match{ID: 1, ScrimID: 4, Status: models.MatchStatusPending})
	rosterRepo := rosterFor(4, map[int]int{1: 10})
	svc := NewResultService(db, matchRepo, rosterRepo, newMockStatsRepo(), nil, testLogger())

	input := SubmitMatchResultInput{
		MapName: "Bermuda",
		Teams:   []TeamResultInput{{TeamID: 55, Placement: 3, Kills: map[int]int{1: 1}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 1, input); !errors.Is(err, ErrTeamNotInScrim) {
		t.Errorf("error = %v, want %v", err, ErrTeamNotInScrim)
	}
}

func TestSubmitMatchResultRejectsUnrosteredPlayer(t *testing.T) {
	db, _ := newTestDB(t)
	matchRepo := newMockMatchRepo(&models.Match{ID: 1, ScrimID: 4, Status: models.MatchStatusPending})
	rosterRepo := rosterFor(4, map[int]int{1: 10, 2: 10})
	svc := NewResultService(db, matchRepo, rosterRepo, newMockStatsRepo(), nil, testLogger())

	input := SubmitMatchResultInput{
		MapName: "Bermuda",
		Teams:   []TeamResultInput{{TeamID: 10, Placement: 1, Kills: map[int]int{1: 2, 999: 3}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 1, input); !errors.Is(err, ErrPlayerNotOnRoster) {
		t.Errorf("error = %v, want %v", err, ErrPlayerNotOnRoster)
	}
}

func TestSubmitMatchResultRollsBackOnWriteFailure(t *testing.T) {
	db, dbMock := newTestDB(t)
	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	matchRepo := newMockMatchRepo(&models.Match{ID: 8, ScrimID: 3, Status: models.MatchStatusPending})
	rosterRepo := rosterFor(3, map[int]int{1: 10, 2: 10, 3: 10})
	statsRepo := newMockStatsRepo()
	statsRepo.failPlayerAfter = 2
	svc := NewResultService(db, matchRepo, rosterRepo, statsRepo, nil, testLogger())

	input := SubmitMatchResultInput{
		MapName: "Alpine",
		Teams:   []TeamResultInput{{TeamID: 10, Placement: 1, Kills: map[int]int{1: 2, 2: 1, 3: 0}}},
	}
	if _, err := svc.SubmitMatchResult(context.Background(), 8, input); err == nil {
		t.Fatal("expected error from failed player stats write")
	}

	// A half-written batch must never flip the match to completed.
	if len(matchRepo.completedIDs) != 0 {
		t.Errorf("match was completed despite a failed write: %v", matchRepo.completedIDs)
	}
	if err := dbMock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestGetMatchResult(t *testing.T) {
	db, _ := newTestDB(t)
	matchRepo := newMockMatchRepo(&models.Match{ID: 2, ScrimID: 1, Status: models.MatchStatusCompleted})
	statsRepo := newMockStatsRepo()
	statsRepo.teamStats[teamStatsKey{2, 10}] = models.MatchTeamStats{MatchID: 2, TeamID: 10, TotalPoints: 18}
	statsRepo.playerStats[playerStatsKey{2, 1}] = models.MatchPlayerStats{MatchID: 2, PlayerID: 1, TeamID: 10, Kills: 6}
	svc := NewResultService(db, matchRepo, &mockRosterRepo{}, statsRepo, nil, testLogger())

	match, err := svc.GetMatchResult(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetMatchResult: %v", err)
	}
	if len(match.TeamStats) != 1 || match.TeamStats[0].TotalPoints != 18 {
		t.Errorf("team stats = %+v, want one row with 18 points", match.TeamStats)
	}
	if len(match.PlayerStats) != 1 || match.PlayerStats[0].Kills != 6 {
		t.Errorf("player stats = %+v, want one row with 6 kills", match.PlayerStats)
	}

	if _, err := svc.GetMatchResult(context.Background(), 77); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("error = %v, want %v", err, ErrMatchNotFound)
	}
}
