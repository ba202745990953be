package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/session"
)

// mutationResult is the payload of addNode and connect. Added is false for
// a blank prompt or a duplicate edge.
type mutationResult struct {
	Added    bool
	Snapshot graph.Snapshot
}

var positionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Position",
	Fields: graphql.Fields{
		"x": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Float),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(graph.Position).X, nil
			},
		},
		"y": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Float),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(graph.Position).Y, nil
			},
		},
	},
})

var nodeType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Node",
	Description: "One generation request in the flow",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: nodeField(func(n graph.Node) any { return n.ID }),
		},
		"seq": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.Int),
			Resolve: nodeField(func(n graph.Node) any { return int(n.Seq) }),
		},
		"type": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.String),
			Resolve: nodeField(func(n graph.Node) any { return n.Kind }),
		},
		"prompt": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.String),
			Resolve: nodeField(func(n graph.Node) any { return n.Payload.Prompt }),
		},
		"width": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.Int),
			Resolve: nodeField(func(n graph.Node) any { return n.Payload.Width }),
		},
		"height": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.Int),
			Resolve: nodeField(func(n graph.Node) any { return n.Payload.Height }),
		},
		"position": &graphql.Field{
			Type:    graphql.NewNonNull(positionType),
			Resolve: nodeField(func(n graph.Node) any { return n.Position }),
		},
	},
})

func nodeField(get func(graph.Node) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		if n, ok := p.Source.(graph.Node); ok {
			return get(n), nil
		}
		return nil, nil
	}
}

var edgeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Edge",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: edgeField(func(e graph.Edge) any { return e.ID }),
		},
		"source": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: edgeField(func(e graph.Edge) any { return e.Source }),
		},
		"target": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: edgeField(func(e graph.Edge) any { return e.Target }),
		},
		"origin": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.String),
			Resolve: edgeField(func(e graph.Edge) any { return string(e.Origin) }),
		},
	},
})

func edgeField(get func(graph.Edge) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		if e, ok := p.Source.(graph.Edge); ok {
			return get(e), nil
		}
		return nil, nil
	}
}

var snapshotType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Snapshot",
	Description: "Nodes, edges and positions after one committed mutation",
	Fields: graphql.Fields{
		"version": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return int(p.Source.(graph.Snapshot).Version), nil
			},
		},
		"nodes": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(nodeType))),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(graph.Snapshot).Nodes, nil
			},
		},
		"edges": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(edgeType))),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(graph.Snapshot).Edges, nil
			},
		},
	},
})

var sessionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Session",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*session.Session).ID(), nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.DateTime),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*session.Session).CreatedAt(), nil
			},
		},
		"snapshot": &graphql.Field{
			Type: graphql.NewNonNull(snapshotType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*session.Session).Snapshot(), nil
			},
		},
	},
})

var mutationResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MutationResult",
	Fields: graphql.Fields{
		"added": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(mutationResult).Added, nil
			},
		},
		"snapshot": &graphql.Field{
			Type: graphql.NewNonNull(snapshotType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(mutationResult).Snapshot, nil
			},
		},
	},
})
