package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/promptflow/pkg/session"
	"github.com/dd0wney/promptflow/pkg/validation"
)

// GenerateSchema builds the read and mutate schema over the live sessions
// held by m.
func GenerateSchema(m *session.Manager, limits *LimitConfig) (graphql.Schema, error) {
	if limits == nil {
		limits = DefaultLimitConfig()
	}
	if err := ValidateLimitConfig(limits); err != nil {
		return graphql.Schema{}, err
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"session": &graphql.Field{
				Type: sessionType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return m.Get(p.Args["id"].(string))
				},
			},
			"sessions": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(sessionType))),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: -1},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list := m.List()
					n := applyLimit(p.Args["limit"].(int), limits)
					if n < len(list) {
						list = list[:n]
					}
					return list, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createSession": &graphql.Field{
				Type: graphql.NewNonNull(sessionType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return m.Create()
				},
			},
			"addNode": &graphql.Field{
				Type: graphql.NewNonNull(mutationResultType),
				Args: graphql.FieldConfigArgument{
					"sessionId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"prompt":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: addNodeResolver(m),
			},
			"connect": &graphql.Field{
				Type: graphql.NewNonNull(mutationResultType),
				Args: graphql.FieldConfigArgument{
					"sessionId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"source":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"target":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: connectResolver(m),
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func addNodeResolver(m *session.Manager) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		s, err := m.Get(p.Args["sessionId"].(string))
		if err != nil {
			return nil, err
		}

		req := validation.PromptRequest{Prompt: p.Args["prompt"].(string)}
		if err := validation.ValidatePromptRequest(&req); err != nil {
			return nil, err
		}

		snap, added := s.AddNode(req.Prompt)
		return mutationResult{Added: added, Snapshot: snap}, nil
	}
}

func connectResolver(m *session.Manager) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		s, err := m.Get(p.Args["sessionId"].(string))
		if err != nil {
			return nil, err
		}

		req := validation.EdgeRequest{
			Source: p.Args["source"].(string),
			Target: p.Args["target"].(string),
		}
		if err := validation.ValidateEdgeRequest(&req); err != nil {
			return nil, err
		}

		snap, added, err := s.Connect(req.Source, req.Target)
		if err != nil {
			return nil, err
		}
		return mutationResult{Added: added, Snapshot: snap}, nil
	}
}
