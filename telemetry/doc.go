// Package telemetry provides observers of the reactive graph: Prometheus
// metrics and OpenTelemetry spans for transactions and computation runs.
//
//	observer := telemetry.Prometheus(telemetry.WithRegistry(reg))
//	signalctx.Configure(signalctx.WithObserver(observer))
package telemetry
