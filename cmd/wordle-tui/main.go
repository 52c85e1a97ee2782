// Command wordle-tui plays Construction Wordle in the terminal.
//
//	wordle-tui [--seed N] [--words FILE]
//
// --seed fixes the random source for target selection (0 = random).
// --words loads a word list file instead of the embedded one; WORDS_FILE
// is honored as well.
package main

import (
	"context"
	mrand "math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/robalobadob/construction-wordle/internal/game"
	"github.com/robalobadob/construction-wordle/internal/tui"
	"github.com/robalobadob/construction-wordle/internal/words"
)

func main() {
	_ = godotenv.Load()
	// the board owns stdout; keep logs on stderr and quiet by default
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cmd := &cli.Command{
		Name:  "wordle-tui",
		Usage: "guess the construction word in six tries",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "random seed for target selection (0 = random)",
			},
			&cli.StringFlag{
				Name:    "words",
				Usage:   "word list file, one word per line",
				Sources: cli.EnvVars("WORDS_FILE"),
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("wordle-tui")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if f := cmd.String("words"); f != "" {
		_ = os.Setenv("WORDS_FILE", f)
	}
	if err := words.Init(); err != nil {
		return err
	}

	opts := []game.Option{}
	if seed := cmd.Uint64("seed"); seed != 0 {
		opts = append(opts, game.WithPicker(game.RandomPicker(mrand.New(mrand.NewPCG(seed, seed)))))
	}
	e, err := game.New(words.Vocabulary(), opts...)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(tui.NewModel(e), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
