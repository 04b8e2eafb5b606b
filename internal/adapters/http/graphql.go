package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// buildSchema creates the read-only GraphQL schema over live sessions,
// history and place search. Field names follow the JSON tags of the domain
// types, which is what the default resolver matches on.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSummary",
		Fields: graphql.Fields{
			"total_distance_meters": &graphql.Field{Type: graphql.Int},
			"total_time_seconds":    &graphql.Field{Type: graphql.Int},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"destination":       &graphql.Field{Type: geoPointType},
			"destination_name":  &graphql.Field{Type: graphql.String},
			"summary":           &graphql.Field{Type: summaryType},
			"summary_text":      &graphql.Field{Type: graphql.String},
			"waypoints":         &graphql.Field{Type: graphql.Int},
			"current_index":     &graphql.Field{Type: graphql.Int},
			"complete":          &graphql.Field{Type: graphql.Boolean},
			"arrived":           &graphql.Field{Type: graphql.Boolean},
			"departure_bearing": &graphql.Field{Type: graphql.Float},
			"last_announced":    &graphql.Field{Type: graphql.String},
			"created_at":        &graphql.Field{Type: graphql.DateTime},
			"instructions": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					v := p.Source.(*domain.SessionView)
					return deps.Navigation.Instructions(v.ID)
				},
			},
		},
	})

	recordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SessionRecord",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"origin":           &graphql.Field{Type: geoPointType},
			"destination":      &graphql.Field{Type: geoPointType},
			"destination_name": &graphql.Field{Type: graphql.String},
			"summary":          &graphql.Field{Type: summaryType},
			"waypoint_count":   &graphql.Field{Type: graphql.Int},
			"created_at":       &graphql.Field{Type: graphql.DateTime},
			"arrived_at":       &graphql.Field{Type: graphql.DateTime},
			"ended_at":         &graphql.Field{Type: graphql.DateTime},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"address":  &graphql.Field{Type: graphql.String},
			"phone":    &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"session": &graphql.Field{
				Type:        sessionType,
				Description: "Snapshot of a live navigation session",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Navigation.Get(p.Args["id"].(string))
				},
			},
			"history": &graphql.Field{
				Type:        graphql.NewList(recordType),
				Description: "Recently planned sessions, newest first",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Navigation.History(p.Context, p.Args["limit"].(int))
				},
			},
			"searchPlaces": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Resolve a destination name into places",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lat":   &graphql.ArgumentConfig{Type: graphql.Float},
					"lon":   &graphql.ArgumentConfig{Type: graphql.Float},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 15},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var near *domain.GeoPoint
					lat, okLat := p.Args["lat"].(float64)
					lon, okLon := p.Args["lon"].(float64)
					if okLat && okLon {
						near = &domain.GeoPoint{Lat: lat, Lon: lon}
					}
					return deps.Places.Search(p.Context, p.Args["query"].(string), near, p.Args["limit"].(int))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
