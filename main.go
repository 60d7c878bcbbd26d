// Copyright 2022 Sogang University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main implements the store server.  The server keeps named
// in-memory tables until a client calls Finalize or the process receives an
// interrupt, at which point it stops gracefully.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/9rum/shelf/store"
	"github.com/armon/go-metrics"
	"github.com/golang/glog"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
)

func main() {
	port := flag.Int("p", 50051, "The server port")
	interval := flag.Duration("metrics-interval", 10*time.Second, "The interval at which in-memory metrics are aggregated")
	flag.Parse()

	if err := setupMetrics(*interval); err != nil {
		glog.Fatalf("failed to set up metrics: %v", err)
	}
	if err := serve(*port); err != nil {
		glog.Fatalf("failed to serve: %v", err)
	}
	glog.Flush()
}

// setupMetrics installs an in-memory metrics sink.  Sending SIGUSR1 to the
// process dumps the current metrics to stderr.
func setupMetrics(interval time.Duration) error {
	sink := metrics.NewInmemSink(interval, 6*interval)
	metrics.DefaultInmemSignal(sink)

	conf := metrics.DefaultConfig("shelf")
	conf.EnableHostname = false
	_, err := metrics.NewGlobal(conf, sink)
	return err
}

func serve(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}

	server := newServer()
	glog.Infof("server listening at %v", lis.Addr())

	return server.Serve(lis)
}

func newServer() *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_recovery.UnaryServerInterceptor(),
		),
	)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func(done <-chan os.Signal, server *grpc.Server) {
		<-done
		glog.Info("shutting down")
		server.GracefulStop()
	}(done, server)

	store.RegisterStoreServer(server, store.NewStoreServer(done))

	return server
}
