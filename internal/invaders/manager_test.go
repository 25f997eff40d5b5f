package invaders

import (
	"testing"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

func newTestManager(prefs PrefsStore) *GameManager {
	m := NewGameManager(config.DefaultConfig(), 1, prefs, nil)
	m.StartSession()
	return m
}

func restartInput() core.InputFrame {
	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	return in
}

func TestStartSession(t *testing.T) {
	m := newTestManager(nil)
	s := m.Session()

	if s.Score != 0 || s.Lives != 3 || s.Level != 1 || s.GameOver {
		t.Errorf("session = %+v, want score 0, 3 lives, level 1", s)
	}
	if m.Level() == nil || m.Level().Group().Step() != 1 {
		t.Fatal("level 1 not rolled out at step 1")
	}
}

func TestBonusLifeOnExactMultiple(t *testing.T) {
	m := newTestManager(nil)

	for i := 0; i < 4; i++ {
		m.OnInvaderKilled(2500)
	}
	if got := m.Session().Lives; got != 4 {
		t.Fatalf("lives = %d after reaching 10000, want 4", got)
	}

	m.OnInvaderKilled(12000)
	if got := m.Session().Lives; got != 4 {
		t.Errorf("lives = %d after jumping to 22000, want 4", got)
	}
	if got := m.Session().Score; got != 22000 {
		t.Errorf("score = %d, want 22000", got)
	}
	if got := m.Session().HighScore; got != 22000 {
		t.Errorf("high score = %d, want 22000", got)
	}
}

func TestPlayerDeathsEndGameOnce(t *testing.T) {
	prefs := NewMemoryPrefs()
	m := newTestManager(prefs)
	m.OnInvaderKilled(30)

	m.OnPlayerKilled()
	m.OnPlayerKilled()
	if m.Session().GameOver {
		t.Fatal("game over with a life left")
	}
	m.OnPlayerKilled()
	if !m.Session().GameOver {
		t.Fatal("no game over after the last life")
	}
	if m.Level() != nil {
		t.Error("level kept after game over")
	}

	m.OnPlayerKilled()
	if got := m.HighScores(); len(got) != 1 || got[0] != 30 {
		t.Errorf("high scores = %v, want [30]", got)
	}
	if m.Session().Lives != 0 {
		t.Errorf("lives = %d after game over, want 0", m.Session().Lives)
	}

	summary := m.Summary()
	if summary.FinalScore != 30 || len(summary.HighScores) != 1 {
		t.Errorf("summary = %+v", summary)
	}

	raw, err := prefs.GetString("HIGH_SCORE_TABLE")
	if err != nil {
		t.Fatalf("table not persisted: %v", err)
	}
	if raw != `{"ScoreTable":[30]}` {
		t.Errorf("persisted %s", raw)
	}
}

func TestGridStepPolicy(t *testing.T) {
	tests := []struct {
		name         string
		step         int
		sheltersOn   bool
		wantGameOver bool
	}{
		{"low", 5, true, false},
		{"at shelter step", 7, true, false},
		{"past shelter step", 8, false, false},
		{"at total steps", 11, false, false},
		{"landed", 12, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(nil)
			level := m.Level()

			m.OnGridStepped(tt.step)

			if m.Session().GameOver != tt.wantGameOver {
				t.Errorf("GameOver = %v, want %v", m.Session().GameOver, tt.wantGameOver)
			}
			if level.Shelters().Active() != tt.sheltersOn {
				t.Errorf("shelters active = %v, want %v", level.Shelters().Active(), tt.sheltersOn)
			}
		})
	}
}

func TestLandingEndsGameWithLivesLeft(t *testing.T) {
	m := newTestManager(nil)
	m.OnGridStepped(12)

	if !m.Session().GameOver || m.Session().Lives != 3 {
		t.Errorf("session = %+v, want game over with 3 lives", m.Session())
	}
}

func TestLevelAdvanceWraps(t *testing.T) {
	m := newTestManager(nil)

	for want := 2; want <= 9; want++ {
		m.OnAllInvadersKilled()
		if got := m.Session().Level; got != want {
			t.Fatalf("level = %d, want %d", got, want)
		}
		if got := m.Level().Group().Step(); got != want {
			t.Fatalf("step = %d at level %d", got, want)
		}
	}

	m.OnAllInvadersKilled()
	if got := m.Session().Level; got != 1 {
		t.Errorf("level = %d after the last, want 1", got)
	}
}

func TestClearingGridMidTickAdvances(t *testing.T) {
	m := newTestManager(nil)
	old := m.Level()
	g := old.Group()

	for len(g.ActiveInvaders()) > 1 {
		g.Kill(g.ActiveInvaders()[0])
	}
	target := g.ActiveInvaders()[0].Position()
	old.SpawnLaser(core.Vec2{X: target.X, Y: target.Y - 1}, nil)

	in := core.NewInputFrame()
	for i := 0; i < 10 && m.Level() == old; i++ {
		m.Tick(tick, in)
	}

	if m.Level() == old {
		t.Fatal("level did not advance")
	}
	if !old.Destroyed() {
		t.Error("old level not destroyed")
	}
	if m.Session().Level != 2 {
		t.Errorf("level = %d, want 2", m.Session().Level)
	}
	if g := m.Level().Group(); g.Killed() != 0 || g.Step() != 2 {
		t.Errorf("new grid killed=%d step=%d, want 0 and 2", g.Killed(), g.Step())
	}
}

func TestPowerUps(t *testing.T) {
	m := newTestManager(nil)

	m.OnPowerUp(PowerUpLife)
	if m.Session().Lives != 4 {
		t.Errorf("lives = %d after life power-up, want 4", m.Session().Lives)
	}
	m.OnPowerUp(PowerUpThunder)
	m.OnPowerUp(PowerUpShield)
	if m.Session().Lives != 4 {
		t.Errorf("lives = %d after inert power-ups, want 4", m.Session().Lives)
	}
}

func TestRestartOnlyWhenGameOver(t *testing.T) {
	m := newTestManager(nil)
	m.OnInvaderKilled(500)

	if m.RestartIfGameOver(restartInput()) {
		t.Fatal("restarted a running game")
	}

	m.OnGridStepped(12)
	if m.RestartIfGameOver(core.NewInputFrame()) {
		t.Fatal("restarted without a restart press")
	}

	// Ticks while game over do nothing else.
	m.Tick(tick, core.NewInputFrame())
	if !m.Session().GameOver {
		t.Fatal("game over cleared by an idle tick")
	}

	m.Tick(tick, restartInput())
	s := m.Session()
	if s.GameOver || s.Score != 0 || s.Lives != 3 || s.Level != 1 {
		t.Errorf("session after restart = %+v", s)
	}
	if s.HighScore != 500 {
		t.Errorf("high score = %d after restart, want 500", s.HighScore)
	}
	if m.Level() == nil || m.Level().Group().Step() != 1 {
		t.Error("restart did not rebuild level 1 at step 1")
	}
	if m.Level().Shelters().Standing() != 40 || !m.Level().Shelters().Active() {
		t.Error("restart did not rebuild the shelters")
	}
}

func TestHighScoreCarriesAcrossManagers(t *testing.T) {
	prefs := NewMemoryPrefs()

	m1 := newTestManager(prefs)
	m1.OnInvaderKilled(700)
	m1.OnGridStepped(12)

	m2 := newTestManager(prefs)
	if got := m2.Session().HighScore; got != 700 {
		t.Errorf("high score = %d, want 700", got)
	}
}

func TestCorruptTableStartsEmpty(t *testing.T) {
	prefs := NewMemoryPrefs()
	if err := prefs.SetString("HIGH_SCORE_TABLE", "{not json"); err != nil {
		t.Fatal(err)
	}

	m := newTestManager(prefs)
	if m.Session().HighScore != 0 || len(m.HighScores()) != 0 {
		t.Errorf("corrupt table gave high score %d and %v", m.Session().HighScore, m.HighScores())
	}
}
