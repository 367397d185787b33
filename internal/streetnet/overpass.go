package streetnet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Router is the contract the directions flow depends on for obtaining a
// routable subgraph. Snapping and pathfinding happen on the returned Graph.
type Router interface {
	FetchLocalGraph(ctx context.Context, center models.Coordinate, radiusMeters float64, mode Mode) (*Graph, error)
}

// walkSpeedKmh is the flat pedestrian speed used for walk-mode time weights.
const walkSpeedKmh = 5.0

// driveSpeedsKmh maps OSM highway classes to assumed driving speeds for
// time-weighted routing when no better signal is available.
var driveSpeedsKmh = map[string]float64{
	"motorway":      100,
	"motorway_link": 60,
	"trunk":         80,
	"trunk_link":    50,
	"primary":       60,
	"primary_link":  40,
	"secondary":     50,
	"tertiary":      40,
	"unclassified":  40,
	"residential":   30,
	"service":       20,
	"living_street": 15,
}

// Highway classes excluded per mode. Everything else tagged highway=* is
// considered routable for the mode.
var (
	walkExcluded  = map[string]bool{"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true}
	driveExcluded = map[string]bool{
		"footway": true, "pedestrian": true, "path": true, "steps": true,
		"cycleway": true, "bridleway": true, "corridor": true, "track": true,
	}
)

// OverpassClient fetches street-network extracts from an Overpass API
// endpoint and assembles them into routable graphs.
type OverpassClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewOverpassClient creates an Overpass-backed street network router. The
// timeout bounds every fetch; the provider is remote and occasionally slow.
func NewOverpassClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *OverpassClient {
	return &OverpassClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type overpassElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// FetchLocalGraph extracts all highway ways within radiusMeters of center and
// builds the routable graph for the requested travel mode.
func (c *OverpassClient) FetchLocalGraph(ctx context.Context, center models.Coordinate, radiusMeters float64, mode Mode) (*Graph, error) {
	query := fmt.Sprintf(
		"[out:json][timeout:%d];way[\"highway\"](around:%.0f,%.6f,%.6f);(._;>;);out body;",
		int(c.httpClient.Timeout.Seconds()), radiusMeters, center.Lat, center.Lon,
	)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	graph := BuildGraph(parsed.Elements, mode)

	c.logger.WithFields(logrus.Fields{
		"center_lat": center.Lat,
		"center_lon": center.Lon,
		"radius_m":   radiusMeters,
		"mode":       mode,
		"nodes":      graph.NodeCount(),
		"latency_ms": time.Since(start).Milliseconds(),
	}).Info("Fetched street network extract")

	return graph, nil
}

// BuildGraph assembles a routable graph from raw Overpass elements. Ways not
// routable for the mode are skipped; drive mode honors oneway tags while walk
// mode treats every way as bidirectional.
func BuildGraph(elements []overpassElement, mode Mode) *Graph {
	graph := NewGraph()

	for _, el := range elements {
		if el.Type == "node" {
			graph.AddNode(NodeID(el.ID), models.Coordinate{Lat: el.Lat, Lon: el.Lon})
		}
	}

	for _, el := range elements {
		if el.Type != "way" {
			continue
		}
		highway := el.Tags["highway"]
		if highway == "" || !routable(highway, mode) {
			continue
		}

		speed := walkSpeedKmh
		if mode == ModeDrive {
			speed = driveSpeedsKmh[highway]
			if speed == 0 {
				speed = 40
			}
		}

		oneway := mode == ModeDrive && (el.Tags["oneway"] == "yes" || el.Tags["oneway"] == "1")
		for i := 0; i+1 < len(el.Nodes); i++ {
			from, to := NodeID(el.Nodes[i]), NodeID(el.Nodes[i+1])
			graph.AddEdge(from, to, speed)
			if !oneway {
				graph.AddEdge(to, from, speed)
			}
		}
	}

	return graph
}

func routable(highway string, mode Mode) bool {
	switch mode {
	case ModeWalk:
		return !walkExcluded[highway]
	case ModeDrive:
		return !driveExcluded[highway]
	default:
		return false
	}
}
