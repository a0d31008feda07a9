package stats

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rwsampling/trackcanvas/log"
)

// StartHttpServer serves pprof and the metrics of s on bind while the
// extract runs.
func StartHttpServer(bind string, s *Statistics) {
	http.Handle("/metrics", promhttp.HandlerFor(s.Registry(), promhttp.HandlerOpts{}))
	go func() {
		log.Println("[error]", http.ListenAndServe(bind, nil))
	}()
}
