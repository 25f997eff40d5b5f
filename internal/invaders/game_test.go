package invaders

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     12345,
	}
}

func newTestGame() *Game {
	g := NewWithStore(NewMemoryPrefs(), nil)
	g.ResetWithConfig(testRuntime(), config.DefaultConfig())
	return g
}

func scriptedInputs(n int) []core.InputFrame {
	inputs := make([]core.InputFrame, n)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		switch {
		case i%40 < 15:
			inputs[i].Set(core.ActionLeft)
		case i%40 < 30:
			inputs[i].Set(core.ActionRight)
		}
		if i%7 == 0 {
			inputs[i].Set(core.ActionShoot)
		}
	}
	return inputs
}

func TestGameDeterminism(t *testing.T) {
	inputs := scriptedInputs(1200)

	run := func() Snapshot {
		g := newTestGame()
		for _, in := range inputs {
			g.Step(in)
		}
		return g.Snapshot()
	}

	snap1 := run()
	snap2 := run()

	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	if snap1.Score != snap2.Score || snap1.Killed != snap2.Killed {
		t.Errorf("runs diverged: score %d/%d killed %d/%d", snap1.Score, snap2.Score, snap1.Killed, snap2.Killed)
	}
	if snap1.Tick != 1200 {
		t.Errorf("Tick = %d, want 1200", snap1.Tick)
	}
}

func TestDropSequenceFollowsSeed(t *testing.T) {
	drops := func(seed int64) []core.Vec2 {
		sp := &fakeSpawner{cfg: config.DefaultConfig()}
		g := NewInvadersGroup(config.DefaultConfig(), rand.New(rand.NewSource(seed)), sp, nil)
		g.RollOut(1)
		var out []core.Vec2
		for i := 0; i < 20; i++ {
			g.DropRandomMissile()
			m := sp.missiles[len(sp.missiles)-1]
			out = append(out, m.Position())
			m.Kill()
		}
		return out
	}

	if !reflect.DeepEqual(drops(7), drops(7)) {
		t.Error("same seed produced different drops")
	}
	if reflect.DeepEqual(drops(7), drops(8)) {
		t.Error("different seeds produced identical drops")
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame()

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("game not paused")
	}

	before := g.Snapshot()
	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}
	after := g.Snapshot()
	if before.Hash() != after.Hash() {
		t.Error("simulation advanced while paused")
	}

	g.Step(pause)
	if g.State().Paused {
		t.Error("game still paused after second toggle")
	}
}

func TestGameState(t *testing.T) {
	g := newTestGame()
	s := g.State()

	if s.Score != 0 || s.Lives != 3 || s.Level != 1 || s.GameOver || s.Paused {
		t.Errorf("initial state = %+v", s)
	}

	g.Manager().OnGridStepped(12)
	if !g.State().GameOver {
		t.Error("State() does not report game over")
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)
	if g.State().GameOver {
		t.Error("restart press did not start a new game")
	}
}

func TestGameRegistered(t *testing.T) {
	if !registry.Exists(ID) {
		t.Fatal("invaders not registered")
	}

	cfg := config.DefaultConfig()
	prefs := NewMemoryPrefs()
	_ = prefs.SetString(cfg.Session.HighScoreKey, `{"ScoreTable":[300,800]}`)

	created, err := registry.Create(ID, registry.Deps{Prefs: prefs})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID() != ID || created.Title() != "Space Invaders" {
		t.Errorf("ID=%q Title=%q", created.ID(), created.Title())
	}

	g, ok := created.(*Game)
	if !ok {
		t.Fatalf("Create() returned %T", created)
	}
	g.ResetWithConfig(testRuntime(), cfg)
	if hs := g.Manager().Session().HighScore; hs != 800 {
		t.Errorf("high score = %d, want 800 from the injected prefs", hs)
	}
}

func TestGameRegisteredWithoutDeps(t *testing.T) {
	created, err := registry.Create(ID, registry.Deps{})
	if err != nil {
		t.Fatal(err)
	}
	g := created.(*Game)
	g.ResetWithConfig(testRuntime(), config.DefaultConfig())
	if g.State().GameOver || g.Manager().Session().HighScore != 0 {
		t.Errorf("fresh game without deps: %+v", g.Manager().Session())
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame()
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	hud := screen.Row(0)
	for _, want := range []string{"SCORE 00000", "LIVES 3", "LEVEL 1"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
	if !strings.Contains(screen.String(), PlayerGlyph) {
		t.Error("player base not drawn")
	}
	if !strings.Contains(screen.String(), "W") {
		t.Error("invaders not drawn")
	}
	if !strings.ContainsRune(screen.String(), BrickChar) {
		t.Error("shelters not drawn")
	}
}

func TestGameRenderGameOver(t *testing.T) {
	g := newTestGame()
	g.Manager().OnInvaderKilled(120)
	g.Manager().OnGridStepped(12)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"GAME OVER", "Score: 120", "HIGH SCORES", "1.    120"} {
		if !strings.Contains(out, want) {
			t.Errorf("game over screen missing %q", want)
		}
	}
}

func TestGameScreenTooSmall(t *testing.T) {
	g := NewWithStore(nil, nil)
	g.ResetWithConfig(core.RuntimeConfig{ScreenW: 30, ScreenH: 10, TickRate: 60}, config.DefaultConfig())

	before := g.Snapshot()
	g.Step(core.NewInputFrame())
	after := g.Snapshot()
	if before.Hash() != after.Hash() {
		t.Error("simulation ran on a screen that is too small")
	}

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("missing too-small message")
	}
}

func TestGameResizeKeepsSession(t *testing.T) {
	g := NewWithStore(nil, nil)
	g.ResetWithConfig(core.RuntimeConfig{ScreenW: 30, ScreenH: 10, TickRate: 60}, config.DefaultConfig())
	manager := g.Manager()

	g.Resize(80, 24)
	if g.Manager() != manager {
		t.Fatal("resize replaced the session")
	}

	before := g.Snapshot()
	g.Step(core.NewInputFrame())
	after := g.Snapshot()
	if after.Hash() == before.Hash() {
		t.Error("simulation should run once the screen is large enough")
	}

	var _ registry.Resizer = g
}
