package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/fsnotify/fsnotify"
	"github.com/jirenius/go-res"

	"github.com/joe-habel/JobSearch/catalog"
	"github.com/joe-habel/JobSearch/indeed"
	"github.com/joe-habel/JobSearch/service"
)

func main() {
	// Create a new RES Service
	s := res.NewService(service.ServiceName)
	s.SetLogger(logrus.StandardLogger())

	reg := catalog.NewRegistry()
	indeed.Register(reg)

	// An optional directory of catalog YAML files is loaded and watched for changes
	var watcher *fsnotify.Watcher
	if len(os.Args) > 1 {
		if err := reg.LoadDir(os.Args[1]); err != nil {
			logrus.Fatalf(`unable to load catalogs from %s: %s`, os.Args[1], err)
		}
		watcher = reg.Watch(func(name string) {
			logrus.Infof(`catalog %s reloaded`, name)
		})
	}

	// Start service in separate goroutine
	service.NewService(s, reg)
	stop := make(chan bool)
	go func() {
		defer close(stop)
		if err := s.ListenAndServe("nats://localhost:4222"); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		}
	}()

	// Wait for interrupt signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	select {
	case <-c:
		// Graceful stop
		_ = s.Shutdown()
		if watcher != nil {
			_ = watcher.Close()
		}
	case <-stop:
	}
}
