package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-invaders/internal/invaders"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SetString("k", "v"); err != nil {
		t.Fatalf("SetString() failed: %v", err)
	}
	if _, err := store.SaveScore("invaders", "ann", 100, 2); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	if v, _ := store.GetString("k"); v != "v" {
		t.Errorf("pref after reopen = %q, want v", v)
	}
	if high, _ := store.HighScore("invaders"); high != 100 {
		t.Errorf("high score after reopen = %d, want 100", high)
	}
}

func TestStorePrefs(t *testing.T) {
	store := openTestStore(t)

	v, err := store.GetString("missing")
	if err != nil || v != "" {
		t.Fatalf("GetString(missing) = %q, %v; want empty, nil", v, err)
	}

	if err := store.SetString("HIGH_SCORE_TABLE", "a"); err != nil {
		t.Fatalf("SetString() failed: %v", err)
	}
	if err := store.SetString("HIGH_SCORE_TABLE", "b"); err != nil {
		t.Fatalf("SetString() overwrite failed: %v", err)
	}
	if v, _ := store.GetString("HIGH_SCORE_TABLE"); v != "b" {
		t.Errorf("GetString() = %q, want b", v)
	}

	if err := store.DeletePref("HIGH_SCORE_TABLE"); err != nil {
		t.Fatalf("DeletePref() failed: %v", err)
	}
	if v, _ := store.GetString("HIGH_SCORE_TABLE"); v != "" {
		t.Errorf("GetString() after delete = %q", v)
	}
}

func TestStoreHighScoreTableRoundTrip(t *testing.T) {
	store := openTestStore(t)

	table := invaders.HighScoreTable{}
	for _, s := range []int{100, 500, 50, 900, 300, 700} {
		table.Add(s, 5)
	}
	if err := invaders.SaveHighScoreTable(store, "HIGH_SCORE_TABLE", table); err != nil {
		t.Fatalf("SaveHighScoreTable() failed: %v", err)
	}

	loaded, err := invaders.LoadHighScoreTable(store, "HIGH_SCORE_TABLE", 5)
	if err != nil {
		t.Fatalf("LoadHighScoreTable() failed: %v", err)
	}
	if want := []int{100, 300, 500, 700, 900}; !reflect.DeepEqual(loaded.ScoreTable, want) {
		t.Errorf("loaded %v, want %v", loaded.ScoreTable, want)
	}

	empty, err := invaders.LoadHighScoreTable(store, "OTHER_KEY", 5)
	if err != nil || len(empty.ScoreTable) != 0 {
		t.Errorf("missing table = %v, %v; want empty", empty.ScoreTable, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []struct {
		game  string
		score int
		level int
	}{
		{"invaders", 100, 1},
		{"invaders", 50, 1},
		{"invaders", 200, 3},
		{"other", 500, 1},
	} {
		if _, err := store.SaveScore(s.game, "ann", s.score, s.level); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("invaders", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Level != 3 || scores[0].Player != "ann" {
		t.Errorf("top entry = %+v, want level 3 by ann", scores[0])
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", "", (i+1)*100, 1)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreRecentScores(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{300, 100, 200} {
		store.SaveScore("test", "", s, 1)
	}

	recent, err := store.RecentScores("test", 2)
	if err != nil {
		t.Fatalf("RecentScores() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 200 || recent[1].Score != 100 {
		t.Errorf("RecentScores() = %v, want 200 then 100", recent)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("invaders")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("invaders", "", 100, 1)
	store.SaveScore("invaders", "", 300, 2)
	store.SaveScore("invaders", "", 200, 1)

	high, err = store.HighScore("invaders")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("invaders", "", 100, 1)
	store.SaveScore("other", "", 300, 1)

	if err := store.ClearScores("invaders"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("invaders", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("other", 10); len(scores) != 1 {
		t.Errorf("Other game scores should not be affected")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("invaders")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || stats.HighScore != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveScore("invaders", "", 100, 1)
	store.SaveScore("invaders", "", 300, 4)

	stats, err = store.GetGameStats("invaders")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.BestLevel != 4 || stats.TotalScore != 400 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
}
