package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cue-league/internal/booking"
	"github.com/mauv0809/cue-league/internal/config"
	"github.com/mauv0809/cue-league/internal/database"
	"github.com/mauv0809/cue-league/internal/league"
	"github.com/mauv0809/cue-league/internal/metrics"
	"github.com/mauv0809/cue-league/internal/ranking"
	"github.com/prometheus/client_golang/prometheus"
)

var seedPlayers = []string{
	"Seeder Player A",
	"Seeder Player B",
	"Seeder Player C",
	"Seeder Player D",
	"Seeder Player E",
	"Seeder Player F",
}

func main() {
	numMatches := flag.Int("matches", 200, "number of completed matches to generate")
	days := flag.Int("days", 90, "spread matches over this many past days")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	store := league.New(db)
	m := metrics.NewService(prometheus.NewRegistry())
	engine := ranking.New(store, m)
	bookings := booking.New(store, engine, m)

	players := make([]string, 0, len(seedPlayers))
	for _, name := range seedPlayers {
		p := &league.Player{Name: name}
		if err := store.CreatePlayer(ctx, p); err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", name, err)
		}
		players = append(players, p.ID)
	}
	log.Info("Created dummy players", "count", len(players))

	rng := rand.New(rand.NewSource(*seed))
	startTime := time.Now()
	created, skipped := 0, 0
	for i := 0; i < *numMatches; i++ {
		p1 := players[rng.Intn(len(players))]
		p2 := players[rng.Intn(len(players))]
		if p1 == p2 {
			skipped++
			continue
		}
		start := time.Now().Add(-time.Duration(rng.Intn(*days*24)+2) * time.Hour).Truncate(time.Hour)
		table := rng.Intn(4) + 1
		match, err := bookings.CreateMatch(ctx, booking.NewMatch{Player1ID: p1, Player2ID: p2, StartTime: start, TableNumber: &table})
		if errors.Is(err, league.ErrBookingConflict) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create match: %s", err)
		}

		end := start.Add(time.Duration(30+rng.Intn(30)) * time.Minute)
		winner := p1
		if rng.Intn(2) == 0 {
			winner = p2
		}
		if _, _, err := bookings.UpdateMatch(ctx, match.ID, booking.MatchUpdate{EndTime: &end, WinnerID: &winner}); err != nil {
			log.Fatalf("Failed to record result for match %s: %s", match.ID, err)
		}
		created++
	}
	log.Info("Inserted dummy matches", "created", created, "skipped", skipped, "duration", time.Since(startTime))

	if err := engine.RecomputeAll(ctx); err != nil {
		log.Fatalf("Failed to recompute ranking: %s", err)
	}
	ranked, err := engine.GetRankedPlayers(ctx)
	if err != nil {
		log.Fatalf("Failed to load ranking: %s", err)
	}
	for i, p := range ranked {
		log.Info("Ranking", "position", i+1, "name", p.Name, "ranking", p.Ranking, "wins", p.Wins, "losses", p.Losses)
	}
}
