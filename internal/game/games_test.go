package game

import (
	"strings"
	"testing"
	"time"
)

func startSession(t *testing.T, id ID, sched Scheduler) (*Session, *recorder) {
	t.Helper()
	entry, ok := DefaultRegistry().Lookup(id)
	if !ok {
		t.Fatalf("game %s not registered", id)
	}
	rec := &recorder{}
	s, err := NewSession(entry, sched, Surface{Width: 40, Height: 25, Seed: 7}, rec.onEnd)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.Start()
	return s, rec
}

func TestDefaultRegistryOrder(t *testing.T) {
	r := DefaultRegistry()
	want := []struct {
		id    ID
		level int
		name  string
	}{
		{Snake, 1, "Snake Game"},
		{TicTacToe, 2, "Tic Tac Toe"},
		{RockPaperScissors, 3, "Rock Paper Scissors"},
		{FlappySquare, 4, "Flappy Square"},
		{MemoryFlip, 5, "Memory Flip"},
	}
	cat := r.Catalog()
	if len(cat) != len(want) {
		t.Fatalf("catalog has %d games, want %d", len(cat), len(want))
	}
	for i, w := range want {
		if cat[i].ID != w.id || cat[i].RequiredLevel != w.level || cat[i].Name != w.name {
			t.Fatalf("catalog[%d]=%s/%d/%q, want %s/%d/%q", i, cat[i].ID, cat[i].RequiredLevel, cat[i].Name, w.id, w.level, w.name)
		}
	}
	if r.Starter().ID != Snake {
		t.Fatalf("starter=%s, want snake", r.Starter().ID)
	}
	if got := r.DisplayName("pong"); got != "pong" {
		t.Fatalf("DisplayName(pong)=%q", got)
	}
}

func TestNewRegistryRejectsBadEntries(t *testing.T) {
	mk := func() Game { return &snakeGame{} }
	cases := map[string][]Entry{
		"duplicate": {
			{ID: Snake, RequiredLevel: 1, New: mk},
			{ID: Snake, RequiredLevel: 2, New: mk},
		},
		"not increasing": {
			{ID: Snake, RequiredLevel: 2, New: mk},
			{ID: TicTacToe, RequiredLevel: 2, New: mk},
		},
		"zero level":     {{ID: Snake, RequiredLevel: 0, New: mk}},
		"unknown id":     {{ID: "pong", RequiredLevel: 1, New: mk}},
		"no constructor": {{ID: Snake, RequiredLevel: 1}},
	}
	for name, entries := range cases {
		if _, err := NewRegistry(entries...); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseID(t *testing.T) {
	for in, want := range map[string]ID{
		"snake":               Snake,
		"Tic-Tac-Toe":         TicTacToe,
		"rock paper scissors": RockPaperScissors,
		"flappy_square":       FlappySquare,
		" MemoryFlip ":        MemoryFlip,
	} {
		got, err := ParseID(in)
		if err != nil || got != want {
			t.Fatalf("ParseID(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseID("pong"); err == nil {
		t.Fatalf("expected error for unknown game")
	}
}

func TestSnakeHitsWall(t *testing.T) {
	sched := NewManualScheduler()
	s, rec := startSession(t, Snake, sched)
	if s.State() != StateNotStarted {
		t.Fatalf("state=%s before first key", s.State())
	}

	s.Input(Input{Key: KeyRight})
	if s.State() != StateRunning {
		t.Fatalf("state=%s after first key", s.State())
	}
	// Head starts at column 10 of 20; nine moves reach the last column.
	sched.Advance(9 * snakePeriod)
	if len(rec.results) != 0 {
		t.Fatalf("ended early")
	}
	sched.Advance(snakePeriod)
	if len(rec.results) != 1 {
		t.Fatalf("results=%d, want 1", len(rec.results))
	}
	if r := rec.results[0]; r.Kind != RewardScore || r.Score%snakeFoodScore != 0 {
		t.Fatalf("result=%+v", r)
	}
}

func TestSnakeIgnoresReversal(t *testing.T) {
	g := &snakeGame{}
	g.Reset(Surface{Seed: 3})
	g.Input(Input{Key: KeyRight})
	g.Input(Input{Key: KeyLeft})
	if g.dir != (point{1, 0}) {
		t.Fatalf("dir=%v, want right", g.dir)
	}
}

func TestSnakeEatsFood(t *testing.T) {
	g := &snakeGame{}
	g.Reset(Surface{Seed: 3})
	g.food = point{g.body[0].x + 1, g.body[0].y}
	g.Input(Input{Key: KeyRight})
	if step := g.Tick(); step.Ended {
		t.Fatalf("ended on food")
	}
	if g.score != snakeFoodScore || len(g.body) != 2 {
		t.Fatalf("score=%d len=%d, want %d/2", g.score, len(g.body), snakeFoodScore)
	}
}

func TestTicTacToeAIPrefersWinThenBlock(t *testing.T) {
	g := &ticTacToeGame{}
	g.Reset(Surface{Seed: 1})

	g.board[0], g.board[1] = 'X', 'X'
	g.board[3], g.board[4] = 'O', 'O'
	if got := g.bestMove(); got != 5 {
		t.Fatalf("bestMove=%d, want winning 5", got)
	}

	g.Reset(Surface{Seed: 1})
	g.board[0], g.board[1] = 'X', 'X'
	g.board[4] = 'O'
	if got := g.bestMove(); got != 2 {
		t.Fatalf("bestMove=%d, want blocking 2", got)
	}

	g.Reset(Surface{Seed: 1})
	g.board[0] = 'X'
	if got := g.bestMove(); got != 4 {
		t.Fatalf("bestMove=%d, want center", got)
	}
}

func TestTicTacToePlayerWinPoints(t *testing.T) {
	g := &ticTacToeGame{}
	g.Reset(Surface{Seed: 1})
	g.board[0], g.board[1] = 'X', 'X'
	g.board[3], g.board[4] = 'O', 'O'

	step := g.Input(Input{Rune: '3'})
	if step.Ended || step.After != tttDelay {
		t.Fatalf("step=%+v, want delayed end", step)
	}
	step = g.Resume()
	if !step.Ended || step.Score != tttWinPoints {
		t.Fatalf("step=%+v, want ended with %d", step, tttWinPoints)
	}
}

func TestTicTacToeSessionFinishes(t *testing.T) {
	sched := NewManualScheduler()
	s, rec := startSession(t, TicTacToe, sched)
	if s.State() != StateRunning {
		t.Fatalf("state=%s, want running", s.State())
	}

	game := s.game.(*ticTacToeGame)
	for turn := 0; turn < 9 && len(rec.results) == 0; turn++ {
		for i, c := range game.board {
			if c == 0 {
				s.Input(Input{Rune: rune('1' + i)})
				break
			}
		}
		sched.Advance(tttDelay)
		sched.Advance(tttDelay)
	}
	if len(rec.results) != 1 {
		t.Fatalf("results=%d, want 1", len(rec.results))
	}
	switch r := rec.results[0]; {
	case r.Kind != RewardPoints:
		t.Fatalf("kind=%v, want points", r.Kind)
	case r.Score != tttWinPoints && r.Score != tttTiePoints && r.Score != tttLossPoints:
		t.Fatalf("score=%d not a tic-tac-toe payout", r.Score)
	}
}

func TestRockPaperScissorsFiveRounds(t *testing.T) {
	sched := NewManualScheduler()
	s, rec := startSession(t, RockPaperScissors, sched)
	for i := 0; i < rpsRounds; i++ {
		s.Input(Input{Rune: 'r'})
	}
	s.Input(Input{Rune: 'p'})

	game := s.game.(*rpsGame)
	if game.rounds != rpsRounds {
		t.Fatalf("rounds=%d, want %d", game.rounds, rpsRounds)
	}
	sched.Advance(rpsRevealDelay - time.Millisecond)
	if len(rec.results) != 0 {
		t.Fatalf("reported before reveal delay")
	}
	sched.Advance(time.Millisecond)
	if len(rec.results) != 1 {
		t.Fatalf("results=%d, want 1", len(rec.results))
	}
	r := rec.results[0]
	if r.Kind != RewardPoints || r.Score != game.matchPoints() {
		t.Fatalf("result=%+v, want points %d", r, game.matchPoints())
	}
}

func TestRockPaperScissorsMatchPoints(t *testing.T) {
	cases := []struct {
		player, computer, want int
	}{
		{3, 1, rpsWinPoints},
		{1, 3, rpsLossPoints},
		{2, 2, rpsTiePoints},
	}
	for _, c := range cases {
		g := &rpsGame{player: c.player, computer: c.computer}
		if got := g.matchPoints(); got != c.want {
			t.Fatalf("matchPoints(%d-%d)=%d, want %d", c.player, c.computer, got, c.want)
		}
	}
}

func TestFlappyFallsAndEnds(t *testing.T) {
	sched := NewManualScheduler()
	s, rec := startSession(t, FlappySquare, sched)
	if s.State() != StateNotStarted {
		t.Fatalf("state=%s before first jump", s.State())
	}
	sched.Advance(time.Second)
	if len(rec.results) != 0 {
		t.Fatalf("ended before starting")
	}

	s.Input(Input{Key: KeyAction})
	if s.State() != StateRunning {
		t.Fatalf("state=%s after jump", s.State())
	}
	sched.Advance(5 * time.Second)
	if len(rec.results) != 1 {
		t.Fatalf("results=%d, want 1", len(rec.results))
	}
	if r := rec.results[0]; r.Score != 0 || r.Kind != RewardScore {
		t.Fatalf("result=%+v, want score 0", r)
	}
	if !strings.Contains(s.View(), "Score") {
		t.Fatalf("view lost after end")
	}
}

func TestFlappyScoresPassedObstacle(t *testing.T) {
	g := &flappyGame{}
	g.Reset(Surface{Seed: 1})
	g.started = true
	g.obstacles = []obstacle{{x: flappyPlayerX - flappyObstacleW - 1, top: 0}}
	g.velocity = flappyJump
	g.Tick()
	if g.score != 1 {
		t.Fatalf("score=%d, want 1", g.score)
	}
	if step := g.over(); step.Score != flappyScoreFactor {
		t.Fatalf("reported %d, want %d", step.Score, flappyScoreFactor)
	}
}

// moveTo walks the memory cursor from its current card to target.
func moveTo(s *Session, g *memoryGame, target int) {
	for g.cursor/memoryCols > target/memoryCols {
		s.Input(Input{Key: KeyUp})
	}
	for g.cursor/memoryCols < target/memoryCols {
		s.Input(Input{Key: KeyDown})
	}
	for g.cursor%memoryCols > target%memoryCols {
		s.Input(Input{Key: KeyLeft})
	}
	for g.cursor%memoryCols < target%memoryCols {
		s.Input(Input{Key: KeyRight})
	}
}

func TestMemoryMismatchFlipsBack(t *testing.T) {
	sched := NewManualScheduler()
	s, _ := startSession(t, MemoryFlip, sched)
	g := s.game.(*memoryGame)
	if s.State() != StateNotStarted {
		t.Fatalf("state=%s before first flip", s.State())
	}

	a, b := 0, 1
	for g.cards[a].symbol == g.cards[b].symbol {
		b++
	}
	moveTo(s, g, a)
	s.Input(Input{Key: KeyAction})
	moveTo(s, g, b)
	s.Input(Input{Key: KeyAction})
	if s.State() != StateRunning {
		t.Fatalf("state=%s after flip", s.State())
	}

	sched.Advance(memoryMissDelay - time.Millisecond)
	if !g.cards[a].flipped || !g.cards[b].flipped {
		t.Fatalf("cards hidden before miss delay")
	}
	sched.Advance(time.Millisecond)
	if g.cards[a].flipped || g.cards[b].flipped {
		t.Fatalf("cards still face up after miss delay")
	}
	if g.moves != 1 {
		t.Fatalf("moves=%d, want 1", g.moves)
	}
}

func TestMemoryClearBoardScore(t *testing.T) {
	sched := NewManualScheduler()
	s, rec := startSession(t, MemoryFlip, sched)
	g := s.game.(*memoryGame)

	pairs := map[string][]int{}
	for i, c := range g.cards {
		pairs[c.symbol] = append(pairs[c.symbol], i)
	}
	for _, sym := range memorySymbols {
		for _, idx := range pairs[sym] {
			moveTo(s, g, idx)
			s.Input(Input{Key: KeyAction})
		}
		sched.Advance(memoryMatchDelay)
	}
	if g.pairs != memoryPairs {
		t.Fatalf("pairs=%d, want %d", g.pairs, memoryPairs)
	}
	if len(rec.results) != 0 {
		t.Fatalf("reported before end delay")
	}
	sched.Advance(memoryEndDelay)
	if len(rec.results) != 1 {
		t.Fatalf("results=%d, want 1", len(rec.results))
	}
	// 8 moves over 4 elapsed seconds; the clock stops on the last match.
	want := memoryBaseScore + (memoryTimeBudget - 4) + (memoryMoveBudget - 8)
	if got := rec.results[0].Score; got != want {
		t.Fatalf("score=%d, want %d", got, want)
	}
}

func TestMemoryClockStartsOnFirstFlip(t *testing.T) {
	sched := NewManualScheduler()
	s, _ := startSession(t, MemoryFlip, sched)
	g := s.game.(*memoryGame)
	if p, _ := sched.Active(); p != 0 {
		t.Fatalf("periodic=%d before first flip, want 0", p)
	}

	sched.Advance(900 * time.Millisecond)
	s.Input(Input{Key: KeyAction})
	if p, _ := sched.Active(); p != 1 {
		t.Fatalf("periodic=%d after first flip, want 1", p)
	}
	sched.Advance(999 * time.Millisecond)
	if g.seconds != 0 {
		t.Fatalf("seconds=%d, charged before a full second", g.seconds)
	}
	sched.Advance(time.Millisecond)
	if g.seconds != 1 {
		t.Fatalf("seconds=%d, want 1", g.seconds)
	}

	moveTo(s, g, 1)
	s.Input(Input{Key: KeyAction})
	if p, _ := sched.Active(); p != 1 {
		t.Fatalf("periodic=%d after second flip, want 1", p)
	}
}
