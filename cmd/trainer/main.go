package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"go.uber.org/zap"

	"github.com/park285/holdem-trainer/internal/adapter/feltpresenter"
	appcfg "github.com/park285/holdem-trainer/internal/config"
	"github.com/park285/holdem-trainer/internal/msgcat"
	"github.com/park285/holdem-trainer/internal/obslog"
	svctable "github.com/park285/holdem-trainer/internal/service/table"
	"github.com/park285/holdem-trainer/internal/tablebuilder"
	"github.com/park285/holdem-trainer/internal/visualizer"
	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	pacing, err := appcfg.LoadPacing(cfg.PacingFile)
	if err != nil {
		log.Fatalf("pacing error: %v", err)
	}

	catalog, err := msgcat.New("")
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}
	formatter := feltpresenter.NewFormatter(catalog)
	presenter := feltpresenter.NewPresenter(
		func(block string) error {
			pterm.Println(block)
			return nil
		},
		pngSaver(cfg.PNGDir),
	)

	// The turn hook needs the service, which the builder makes after hooks
	// are handed over; the closure binds late.
	var deps *tablebuilder.Deps
	hooks := svctable.Hooks{
		StepPlayed: func(step visualizer.Step) {
			_ = presenter.Show(formatter.StepLine(feltpresenter.ToStepCue(step)))
		},
		TurnChanged: func(mayAct bool) {
			if !mayAct || deps == nil {
				return
			}
			view, err := deps.Service.Snapshot()
			if err != nil {
				return
			}
			_ = presenter.Show(formatter.Page(feltpresenter.ToTableView(view)))
		},
		Failed: func(err error) {
			_ = presenter.Show(formatter.AdvanceFailed())
			logger.Warn("sequencer error", zap.Error(err))
		},
	}

	deps, err = tablebuilder.New(cfg, pacing, hooks, logger)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = deps.Close(ctx)
	}()

	printBanner()

	// Probe the dealer so a dead endpoint is obvious before the first deal.
	spinner, _ := pterm.DefaultSpinner.Start("Checking the dealer at " + cfg.DealerBaseURL + " ...")
	hctx, hcancel := context.WithTimeout(context.Background(), 5*time.Second)
	health, err := deps.Dealer.Health(hctx)
	hcancel()
	if err != nil {
		spinner.Fail()
		_ = presenter.Show(formatter.DealerDown(cfg.DealerBaseURL))
	} else {
		spinner.Success()
		pterm.Info.Printfln("Dealer status: %s", health.Status)
	}

	fctx, fcancel := context.WithCancel(context.Background())
	defer fcancel()
	if err := deps.Feed.Start(fctx); err != nil {
		logger.Warn("state feed unavailable", zap.Error(err))
	}

	pterm.Println()
	pterm.Info.Println("Type 'help' for commands.")

	runConsole(deps, presenter, formatter, pacing.RequestTimeout())
}

func printBanner() {
	pterm.Print("\n")
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Hold", pterm.FgLightCyan.ToStyle()),
		putils.LettersFromStringWithStyle("'em", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}
	pterm.Println(pterm.FgGray.Sprint("preflop trainer console"))
}

// runConsole is the command loop. It blocks until quit.
func runConsole(deps *tablebuilder.Deps, presenter *feltpresenter.Presenter, formatter *feltpresenter.Formatter, timeout time.Duration) {
	svc := deps.Service
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText("command").
			Show()
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Fields(raw)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		switch cmd {
		case "help":
			_ = presenter.Show(helpText())
		case "deal", "start":
			drill := ""
			if len(args) >= 1 {
				drill = args[0]
			}
			view, err := svc.StartHand(ctx, drill)
			if err != nil {
				showError(presenter, formatter, err)
				break
			}
			_ = presenter.Show(formatter.Deal(feltpresenter.ToTableView(view)))
		case "table", "show":
			showTable(ctx, svc, presenter, formatter)
		case "act":
			promptAction(svc, presenter, formatter, timeout)
		case "fold", "check", "call", "raise":
			amount := 0
			if cmd == "raise" {
				if len(args) < 1 {
					_ = presenter.Show("usage: raise <amount>")
					break
				}
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					_ = presenter.Show("raise amount must be a positive number")
					break
				}
				amount = n
			}
			sendAction(ctx, svc, presenter, formatter, cmd, amount)
		case "range":
			token := ""
			if len(args) >= 1 {
				token = args[0]
			}
			grid, err := svc.RangeGrid(ctx, token)
			if err != nil {
				showError(presenter, formatter, err)
				break
			}
			_ = presenter.Show(formatter.RangeGrid(grid))
		case "drills":
			_ = presenter.Show(drillList())
		case "refresh":
			view, err := svc.Refresh(ctx)
			if err != nil {
				showError(presenter, formatter, err)
				break
			}
			_ = presenter.Show(formatter.Page(feltpresenter.ToTableView(view)))
		case "reset":
			view, err := svc.Reset(ctx)
			if err != nil {
				showError(presenter, formatter, err)
				break
			}
			_ = presenter.Show(formatter.Page(feltpresenter.ToTableView(view)))
		case "quit", "exit":
			cancel()
			pterm.Info.Println("Bye.")
			return
		default:
			_ = presenter.Show("Unknown command. Try 'help'.")
		}
		cancel()
	}
}

// showTable prints the text page and, when an image sink is configured,
// saves the rendered felt alongside it.
func showTable(ctx context.Context, svc *svctable.Service, presenter *feltpresenter.Presenter, formatter *feltpresenter.Formatter) {
	view, err := svc.Snapshot()
	if err != nil {
		showError(presenter, formatter, err)
		return
	}
	page := formatter.Page(feltpresenter.ToTableView(view))
	png, err := svc.RenderPNG(ctx)
	if err != nil {
		_ = presenter.Show(page)
		obslog.L().Warn("table render failed", zap.Error(err))
		return
	}
	_ = presenter.Table(page, png)
}

// promptAction runs the interactive action picker over whatever the dealer
// currently allows. The request context is created after the prompts so the
// timeout does not tick while the user is deciding.
func promptAction(svc *svctable.Service, presenter *feltpresenter.Presenter, formatter *feltpresenter.Formatter, timeout time.Duration) {
	view, err := svc.Snapshot()
	if err != nil {
		showError(presenter, formatter, err)
		return
	}
	if view.State == nil || len(view.State.AvailableActions) == 0 {
		_ = presenter.Show(formatter.NoSession())
		return
	}

	options := append([]string(nil), view.State.AvailableActions...)
	selected, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Select your action").
		WithOptions(options).
		Show()
	selected = strings.ToLower(strings.TrimSpace(selected))
	if selected == "" {
		return
	}

	amount := 0
	if selected == "raise" {
		prompt := fmt.Sprintf("Raise to (%d-%d)", view.State.MinRaise, view.State.MaxRaise)
		rawAmount, _ := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).Show()
		n, err := strconv.Atoi(strings.TrimSpace(rawAmount))
		if err != nil || n <= 0 {
			_ = presenter.Show("raise amount must be a positive number")
			return
		}
		amount = n
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	sendAction(ctx, svc, presenter, formatter, selected, amount)
}

func sendAction(ctx context.Context, svc *svctable.Service, presenter *feltpresenter.Presenter, formatter *feltpresenter.Formatter, action string, amount int) {
	view, err := svc.Act(ctx, action, amount)
	if err != nil {
		showError(presenter, formatter, err)
		return
	}
	_ = presenter.Show(formatter.Page(feltpresenter.ToTableView(view)))
}

func showError(presenter *feltpresenter.Presenter, formatter *feltpresenter.Formatter, err error) {
	var dealerErr *pokerdto.DealerError
	switch {
	case errors.Is(err, svctable.ErrNoSession):
		_ = presenter.Show(formatter.NoSession())
	case errors.Is(err, svctable.ErrNotYourTurn):
		_ = presenter.Show(formatter.Rejection("action is still folding around"))
	case errors.As(err, &dealerErr):
		_ = presenter.Show(formatter.Rejection(dealerErr.Message))
	default:
		pterm.Error.Println(err.Error())
	}
}

func drillList() string {
	var sb strings.Builder
	sb.WriteString(pterm.LightCyan("DRILLS") + "\n")
	for _, d := range svctable.ListDrills() {
		sb.WriteString(fmt.Sprintf("  %-10s %s (you: %s, opponent: %s)\n", d.Name, d.Title, d.Hero, d.Villain))
	}
	sb.WriteString(pterm.FgGray.Sprint("deal <name> switches the drill."))
	return sb.String()
}

func helpText() string {
	return strings.Join([]string{
		pterm.LightCyan("COMMANDS"),
		"  deal [drill]    start a new hand (optionally switching drill)",
		"  act             pick an action interactively",
		"  fold / check / call / raise <n>",
		"  table           print the table and save the felt image",
		"  range [name]    show a 13x13 range chart",
		"  drills          list drills",
		"  refresh         pull authoritative state from the dealer",
		"  reset           reset the dealer and start over",
		"  quit            leave",
	}, "\n")
}

// pngSaver writes rendered table images under dir. An empty dir disables
// image output.
func pngSaver(dir string) func([]byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	return func(data []byte) (string, error) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create image dir: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("table-%d.png", time.Now().UnixMilli()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("write image: %w", err)
		}
		return path, nil
	}
}
