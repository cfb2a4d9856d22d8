package metrics

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor returns a gRPC interceptor that records metrics for each request.
func UnaryServerInterceptor(exporter *PrometheusExporter) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		method := info.FullMethod
		exporter.RecordRequest(method)

		resp, err := handler(ctx, req)

		exporter.RecordDuration(method, time.Since(start).Seconds())
		if err != nil {
			exporter.RecordError(method, status.Code(err).String())
		}

		return resp, err
	}
}
