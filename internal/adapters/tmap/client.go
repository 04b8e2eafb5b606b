// Package tmap talks to the SK Open API (Tmap) pedestrian routing and POI
// search endpoints.
package tmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pathpal/pathpal/internal/core/domain"
)

const (
	routePath  = "/tmap/routes/pedestrian"
	searchPath = "/tmap/pois"

	// Name sent for the origin; the device always starts at its own position.
	defaultOriginName = "내 위치"

	maxBodyBytes = 4 << 20
)

// Client implements ports.RouteProvider and ports.PlaceSearcher.
type Client struct {
	baseURL string
	appKey  string
	http    *http.Client
}

// New creates a client. baseURL is the API root, e.g. https://apis.openapi.sk.com.
func New(baseURL, appKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appKey:  appKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// StatusError is a non-200 reply from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmap: HTTP %d: %s", e.StatusCode, e.Body)
}

type routeBody struct {
	StartX       string `json:"startX"`
	StartY       string `json:"startY"`
	EndX         string `json:"endX"`
	EndY         string `json:"endY"`
	EndPoiID     string `json:"endPoiId,omitempty"`
	StartName    string `json:"startName"`
	EndName      string `json:"endName"`
	ReqCoordType string `json:"reqCoordType"`
	ResCoordType string `json:"resCoordType"`
	SearchOption string `json:"searchOption"`
	Sort         string `json:"sort"`
}

// FetchRoute posts a pedestrian route request and returns the raw GeoJSON
// FeatureCollection.
func (c *Client) FetchRoute(ctx context.Context, req domain.RouteRequest) ([]byte, error) {
	originName := req.OriginName
	if originName == "" {
		originName = defaultOriginName
	}
	destName := req.DestinationName
	if destName == "" {
		destName = "목적지"
	}

	body, err := json.Marshal(routeBody{
		StartX:       coord(req.Origin.Lon),
		StartY:       coord(req.Origin.Lat),
		EndX:         coord(req.Destination.Lon),
		EndY:         coord(req.Destination.Lat),
		EndPoiID:     req.DestinationPOIID,
		StartName:    url.QueryEscape(originName),
		EndName:      url.QueryEscape(destName),
		ReqCoordType: "WGS84GEO",
		ResCoordType: "WGS84GEO",
		SearchOption: "4",
		Sort:         "index",
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+routePath+"?version=1", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq)
}

type poiResponse struct {
	SearchPoiInfo struct {
		Pois struct {
			Poi []poi `json:"poi"`
		} `json:"pois"`
	} `json:"searchPoiInfo"`
}

type poi struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TelNo          string `json:"telNo"`
	NoorLat        string `json:"noorLat"`
	NoorLon        string `json:"noorLon"`
	FrontLat       string `json:"frontLat"`
	FrontLon       string `json:"frontLon"`
	UpperAddrName  string `json:"upperAddrName"`
	MiddleAddrName string `json:"middleAddrName"`
	LowerAddrName  string `json:"lowerAddrName"`
	DetailAddrName string `json:"detailAddrname"`
}

// SearchPlaces runs a keyword POI search, biased towards near when given.
func (c *Client) SearchPlaces(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("version", "1")
	q.Set("searchKeyword", query)
	q.Set("searchType", "all")
	q.Set("page", "1")
	q.Set("count", strconv.Itoa(limit))
	q.Set("reqCoordType", "WGS84GEO")
	q.Set("resCoordType", "WGS84GEO")
	q.Set("multiPoint", "N")
	q.Set("poiGroupYn", "N")
	if near != nil {
		q.Set("searchtypCd", "R")
		q.Set("radius", "0")
		q.Set("centerLat", coord(near.Lat))
		q.Set("centerLon", coord(near.Lon))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	data, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	// No results come back as 204 with an empty body.
	if len(data) == 0 {
		return []domain.Place{}, nil
	}

	var resp poiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode pois: %w", err)
	}

	places := make([]domain.Place, 0, len(resp.SearchPoiInfo.Pois.Poi))
	for _, p := range resp.SearchPoiInfo.Pois.Poi {
		loc, ok := parsePoint(p.NoorLat, p.NoorLon)
		if !ok {
			if loc, ok = parsePoint(p.FrontLat, p.FrontLon); !ok {
				continue
			}
		}
		places = append(places, domain.Place{
			ID:       p.ID,
			Name:     p.Name,
			Address:  joinNonEmpty(p.UpperAddrName, p.MiddleAddrName, p.LowerAddrName, p.DetailAddrName),
			Phone:    p.TelNo,
			Location: loc,
		})
	}
	return places, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("appKey", c.appKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmap: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("tmap: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parsePoint(lat, lon string) (domain.GeoPoint, bool) {
	la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lo, err2 := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err1 != nil || err2 != nil {
		return domain.GeoPoint{}, false
	}
	p := domain.GeoPoint{Lat: la, Lon: lo}
	return p, p.Valid()
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
