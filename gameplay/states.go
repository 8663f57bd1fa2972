package gameplay

import "github.com/rs/zerolog/log"

// GameState is one phase of a game. Each state owns its enter/exit actions,
// input handling and per-frame update.
type GameState interface {
	Name() string
	Enter(s *Session)
	Exit(s *Session)
	HandleInput(s *Session, cmds Commands)
	Update(s *Session, dt float64)
}

// Game state singletons, compared by identity.
var (
	StateInGame     GameState = inGameState{}
	StateDead       GameState = deadState{}
	StateScoreTally GameState = scoreTallyState{}
	StateWin        GameState = winState{}
)

type inGameState struct{}

type deadState struct{}

type scoreTallyState struct{}

type winState struct{}

func (inGameState) Name() string { return "in_game" }
func (inGameState) Enter(s *Session) {
	s.draining = false
	s.resetBall()
}
func (inGameState) Exit(s *Session) {
	s.releaseActuators()
}
func (inGameState) HandleInput(s *Session, cmds Commands) {
	s.handleFlippers(cmds)
	s.handlePlunger(cmds)
}
func (inGameState) Update(s *Session, dt float64) {
	s.step(dt)
	if s.lives <= 0 {
		if s.score < s.best || s.score == 0 {
			s.ChangeState(StateDead)
		} else {
			s.ChangeState(StateWin)
		}
	}
}

func (deadState) Name() string { return "dead" }
func (deadState) Enter(s *Session) {
	s.sounds.Play(CueGameOver)
}
func (deadState) Exit(s *Session) {}
func (deadState) HandleInput(s *Session, cmds Commands) {
	if cmds.Continue {
		s.ChangeState(StateScoreTally)
	}
}
func (deadState) Update(s *Session, dt float64) {
	s.idle(dt)
}

func (winState) Name() string { return "win" }
func (winState) Enter(s *Session) {
	s.sounds.Play(CueWin)
}
func (winState) Exit(s *Session) {}
func (winState) HandleInput(s *Session, cmds Commands) {
	if cmds.Continue {
		s.ChangeState(StateScoreTally)
	}
}
func (winState) Update(s *Session, dt float64) {
	s.idle(dt)
}

// scoreTallyState lasts a single frame: it folds the finished game into the
// best score and starts the next one.
func (scoreTallyState) Name() string { return "score_tally" }
func (scoreTallyState) Enter(s *Session) {
	if s.score > s.best {
		s.best = s.score
	}
	log.Info().Str("component", "gameplay").Int("score", s.score).Int("best", s.best).Msg("game over")
	s.score = 0
	s.lives = s.tuning().Lives
	s.extraLifeAwarded = false
	s.banner = 0
}
func (scoreTallyState) Exit(s *Session)                       {}
func (scoreTallyState) HandleInput(s *Session, cmds Commands) {}
func (scoreTallyState) Update(s *Session, dt float64) {
	s.ChangeState(StateInGame)
}
