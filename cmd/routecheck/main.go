// Command routecheck fetches a walking route and prints what a device would
// hear along it. With -publish it also replays the walk as position samples
// on NATS for a live session.
//
//	routecheck -from 37.5665,126.9780 -to 37.5759,126.9768 -name 광화문
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kr/pretty"

	"github.com/pathpal/pathpal/internal/adapters/googlemaps"
	natsadapter "github.com/pathpal/pathpal/internal/adapters/nats"
	"github.com/pathpal/pathpal/internal/adapters/tmap"
	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/geometry"
	"github.com/pathpal/pathpal/internal/core/guidance"
	"github.com/pathpal/pathpal/internal/core/ports"
	"github.com/pathpal/pathpal/internal/core/usecases"
	"github.com/pathpal/pathpal/internal/pkg/config"
	"github.com/pathpal/pathpal/internal/pkg/logging"
)

func main() {
	from := flag.String("from", "", "origin as lat,lon")
	to := flag.String("to", "", "destination as lat,lon")
	name := flag.String("name", "", "destination name")
	dump := flag.Bool("dump", false, "dump the parsed route")
	simulate := flag.Bool("simulate", true, "walk the waypoints and print narrations")
	publish := flag.String("publish", "", "session ID to replay the walk to over NATS")
	interval := flag.Duration("interval", time.Second, "delay between replayed samples")
	flag.Parse()

	cfg, err := config.Load("pathpal-routecheck")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text")

	origin, err := parseLatLon(*from)
	if err != nil {
		log.Fatalf("-from: %v", err)
	}
	dest, err := parseLatLon(*to)
	if err != nil {
		log.Fatalf("-to: %v", err)
	}

	provider, err := newProvider(cfg.Routing)
	if err != nil {
		log.Fatalf("routing: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := domain.RouteRequest{Origin: origin, Destination: dest, DestinationName: *name}
	route, _, err := usecases.NewRouteService(provider, cfg.Routing.Provider, nil, 0).Fetch(ctx, req)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}

	if *dump {
		pretty.Println(route)
	}

	fmt.Println(guidance.FormatSummary(route.Summary.TotalDistanceMeters, route.Summary.TotalTimeSeconds))
	for i, line := range guidance.InstructionList(route) {
		fmt.Printf("%3d. %s\n", i+1, line)
	}

	waypoints := geometry.BuildWaypoints(route.Features, slog.Default())
	if skipped := geometry.CountPoints(route.Features) - len(waypoints); skipped > 0 {
		fmt.Printf("(%d unpaired point(s) skipped)\n", skipped)
	}

	if *simulate {
		fmt.Println()
		sess := usecases.NewSession("routecheck", usecases.NavigationSettings{
			ProximityThresholdM: cfg.Navigation.ProximityThresholdM,
			ArrivalRadiusM:      cfg.Navigation.ArrivalRadiusM,
			HeadingToleranceDeg: cfg.Navigation.HeadingToleranceDeg,
		}, slog.Default())
		sess.OnRouteFetched(route, dest, *name)
		for _, wp := range waypoints {
			for _, n := range sess.OnPositionUpdate(wp.Coordinate, time.Now()) {
				printNarration(n)
			}
		}
		for _, n := range sess.OnPositionUpdate(dest, time.Now()) {
			printNarration(n)
		}
	}

	if *publish != "" {
		if err := replay(ctx, cfg.NATS.URL, *publish, waypoints, dest, *interval); err != nil {
			log.Fatalf("publish: %v", err)
		}
	}
}

func printNarration(n domain.Narration) {
	mark := " "
	if n.Alert {
		mark = "!"
	}
	fmt.Printf("%s [%s] %s\n", mark, n.Kind, n.Text)
}

// replay publishes one position per waypoint, then the destination.
func replay(ctx context.Context, url, sessionID string, waypoints []domain.Waypoint, dest domain.GeoPoint, interval time.Duration) error {
	pub, err := natsadapter.NewPublisher(url)
	if err != nil {
		return err
	}
	defer pub.Close()

	points := make([]domain.GeoPoint, 0, len(waypoints)+1)
	for _, wp := range waypoints {
		points = append(points, wp.Coordinate)
	}
	points = append(points, dest)

	for i, p := range points {
		sample := &domain.PositionSample{SessionID: sessionID, Location: p, Timestamp: time.Now()}
		if err := pub.PublishPosition(ctx, sample); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		slog.Info("published position", "session_id", sessionID, "n", i+1, "of", len(points))
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func newProvider(cfg config.RoutingConfig) (ports.RouteProvider, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.Provider == "google" {
		return googlemaps.New(cfg.GoogleAPIKey, timeout)
	}
	return tmap.New(cfg.TmapBaseURL, cfg.TmapAppKey, timeout), nil
}

func parseLatLon(s string) (domain.GeoPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.GeoPoint{}, fmt.Errorf("want lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.GeoPoint{}, domain.ErrInvalidCoordinate
	}
	return p, nil
}
