package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/notifier"
	"github.com/mauv0809/tennis-oracle/internal/resolver"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/slack-go/slack"
)

const tennisUsage = "Usage: `/tennis winner <tournament> <year>`, `/tennis h2h <player> vs <player>`, " +
	"`/tennis career <player>`, `/tennis slams <year> [atp|wta]`, `/tennis top [atp|wta] [n]`, " +
	"`/tennis most [n]`, `/tennis status` or `/tennis sync`"

type commandAction int

const (
	actionQuery commandAction = iota
	actionStatus
	actionSync
	actionHelp
)

type tennisCommand struct {
	action commandAction
	query  resolver.Query
	// subject is echoed back when there is no data.
	subject string
}

var errUsage = errors.New("unrecognised command")

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondFormatted writes the output of a notifier Format call.
func respondFormatted(w http.ResponseWriter) func(msg any, err error) {
	return func(msg any, err error) {
		if err != nil {
			http.Error(w, "Failed to format response", http.StatusInternalServerError)
			log.Error("Failed to format slack response", "error", err)
			return
		}
		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}

// parseTennisCommand parses the text of a /tennis slash command.
// Expected formats:
//
//	winner Wimbledon 2019
//	h2h Djokovic vs Nadal
//	career Roger Federer
//	slams 2019 wta
//	top atp 5
//	most 10
//	status | sync | help
func parseTennisCommand(text string) (tennisCommand, error) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return tennisCommand{action: actionHelp}, nil
	}
	sub, args := strings.ToLower(parts[0]), parts[1:]

	switch sub {
	case "help":
		return tennisCommand{action: actionHelp}, nil
	case "status":
		return tennisCommand{action: actionStatus}, nil
	case "sync":
		return tennisCommand{action: actionSync}, nil
	case "winner":
		if len(args) < 2 {
			return tennisCommand{}, errUsage
		}
		year, err := strconv.Atoi(args[len(args)-1])
		if err != nil {
			return tennisCommand{}, fmt.Errorf("%w: year must be a number", errUsage)
		}
		name := strings.Join(args[:len(args)-1], " ")
		return tennisCommand{
			query:   resolver.Query{Kind: resolver.KindTournamentWinner, Tournament: name, Year: year},
			subject: fmt.Sprintf("%s %d", name, year),
		}, nil
	case "h2h":
		a, b, ok := splitVersus(args)
		if !ok {
			return tennisCommand{}, errUsage
		}
		return tennisCommand{
			query:   resolver.Query{Kind: resolver.KindHeadToHead, PlayerA: a, PlayerB: b},
			subject: a + " vs " + b,
		}, nil
	case "career":
		if len(args) == 0 {
			return tennisCommand{}, errUsage
		}
		name := strings.Join(args, " ")
		return tennisCommand{
			query:   resolver.Query{Kind: resolver.KindCareerStats, Player: name},
			subject: name,
		}, nil
	case "slams":
		if len(args) == 0 || len(args) > 2 {
			return tennisCommand{}, errUsage
		}
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return tennisCommand{}, fmt.Errorf("%w: year must be a number", errUsage)
		}
		q := resolver.Query{Kind: resolver.KindGrandSlamWinners, Year: year}
		if len(args) == 2 {
			q.Tour = args[1]
		}
		return tennisCommand{query: q, subject: fmt.Sprintf("Grand Slams %d", year)}, nil
	case "top":
		q := resolver.Query{Kind: resolver.KindTopRanked, Limit: defaultListLimit}
		for _, arg := range args {
			if n, err := strconv.Atoi(arg); err == nil {
				q.Limit = n
				continue
			}
			q.Tour = arg
		}
		return tennisCommand{query: q, subject: "rankings"}, nil
	case "most":
		q := resolver.Query{Kind: resolver.KindMostSuccessful, Limit: defaultListLimit}
		if len(args) > 1 {
			return tennisCommand{}, errUsage
		}
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return tennisCommand{}, fmt.Errorf("%w: limit must be a number", errUsage)
			}
			q.Limit = n
		}
		return tennisCommand{query: q, subject: "match wins"}, nil
	}
	return tennisCommand{}, errUsage
}

// splitVersus splits "A B vs C D" into its two player names.
func splitVersus(args []string) (string, string, bool) {
	for i, arg := range args {
		if strings.EqualFold(arg, "vs") || strings.EqualFold(arg, "v") {
			a := strings.Join(args[:i], " ")
			b := strings.Join(args[i+1:], " ")
			return a, b, a != "" && b != ""
		}
	}
	return "", "", false
}

// TennisCommandHandler serves the /tennis slash command. workflow may be nil.
func TennisCommandHandler(res QueryResolver, engine SyncEngine, workflow SyncRequester, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		log.Info("Received tennis command", "user", cmd.UserName, "text", cmd.Text)

		parsed, err := parseTennisCommand(cmd.Text)
		if err != nil {
			msg := tennisUsage
			if err != errUsage {
				msg = err.Error() + ". " + tennisUsage
			}
			respondFormatted(w)(notifier.FormatErrorResponse(msg))
			return
		}

		switch parsed.action {
		case actionHelp:
			respondFormatted(w)(notifier.FormatErrorResponse(tennisUsage))
		case actionStatus:
			respondFormatted(w)(notifier.FormatSyncStatusResponse(engine.Status()))
		case actionSync:
			result := startSync(r.Context(), engine, workflow, syncer.TriggerSlack)
			log.Info("Sync requested from Slack", "user", cmd.UserName, "outcome", result.Outcome)
			respondFormatted(w)(notifier.FormatSyncStartedResponse(result))
		default:
			result, err := res.Resolve(r.Context(), parsed.query)
			switch {
			case err == nil:
				respondFormatted(w)(notifier.FormatQueryResponse(result))
			case errors.Is(err, resolver.ErrNotFound):
				respondFormatted(w)(notifier.FormatNoDataResponse(parsed.subject))
			case errors.Is(err, resolver.ErrInvalidArgument):
				respondFormatted(w)(notifier.FormatErrorResponse(err.Error()))
			default:
				log.Error("Failed to resolve slack query", "kind", parsed.query.Kind, "error", err)
				http.Error(w, "Failed to resolve query", http.StatusInternalServerError)
			}
		}
	}
}
