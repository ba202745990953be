package adapter

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// LambdaHandler turns API Gateway HTTP API (v2) events into requests on
// an http.Handler. Responses are buffered, so event streams only deliver
// their first flush before the invocation ends.
type LambdaHandler struct {
	adapter *httpadapter.HandlerAdapterV2
}

// NewLambdaHandler wraps h for lambda.Start.
func NewLambdaHandler(h http.Handler) *LambdaHandler {
	return &LambdaHandler{adapter: httpadapter.NewV2(h)}
}

// Handle serves one API Gateway event.
func (l *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return l.adapter.ProxyWithContext(ctx, req)
}
