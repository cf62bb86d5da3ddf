package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/porkbunDDNS/common/metrics"
	"github.com/Septrum101/porkbunDDNS/config"
	"github.com/Septrum101/porkbunDDNS/controller"
)

func main() {
	config.ShowVersion()

	printVersion := flag.Bool("version", false, "show version")
	configFile := flag.String("config", "", "config file, default searches config.yml in . /etc/"+config.AppName+" $HOME/."+config.AppName)
	flag.Parse()
	if *printVersion {
		return
	}

	// init config
	getConfig := config.GetConfig(*configFile)
	c, err := config.Load(getConfig)
	if err != nil {
		log.Panic(err)
	}

	metrics.SetBuildInfo(config.Version(), runtime.Version())
	if c.MetricsListen != "" {
		go serveMetrics(c.MetricsListen)
	}

	// start service
	s, err := controller.New(c)
	if err != nil {
		log.Panic(err)
	}
	servers := &controller.Holder{}
	servers.Start(s)

	// hot reload configure
	lastTime := time.Now()
	getConfig.OnConfigChange(func(e fsnotify.Event) {
		if time.Now().After(lastTime.Add(time.Second * 3)) {
			log.Println("Config file changed:", e.Name)
			newConf, err := config.Load(getConfig)
			if err != nil {
				log.Errorf("ignore invalid config: %v", err)
				return
			}
			next, err := controller.New(newConf)
			if err != nil {
				log.Errorf("ignore invalid config: %v", err)
				return
			}

			// release server resource and start the new one
			servers.Start(next)
		}
		lastTime = time.Now()
	})
	getConfig.WatchConfig()

	// Running backend
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	<-osSignals
	servers.Close()
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	log.Infof("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err)
	}
}
