// HTTP server to expose discovery and querying of collector metrics to other programs only on the local system
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"strconv"
	"strings"
)

const helpTemplate string = `<!DOCTYPE html>
<html>
<head><title>sensorweb metrics</title></head>
<body>
<h1>sensorweb metric query server</h1>
<p>Listening on http://{LISTEN_ADDR}:{LISTEN_PORT}/</p>
<ul>
<li><code>{DATA_PATH}&lt;namespace&gt;?name=&amp;starttime=&amp;endtime=</code> raw samples</li>
<li><code>{DISCOVER_PATH}&lt;namespace&gt;?name=&amp;description=&amp;unit=&amp;type=</code> available metrics</li>
<li><code>{AGGREGATION_PATH}&lt;namespace&gt;?name=&amp;aggregation=sum|mean|trimmedmean|min|max&amp;starttime=&amp;endtime=</code> one summary value</li>
</ul>
<p>starttime accepts RFC3339 or a negative duration such as -5m. endtime accepts RFC3339, a negative duration or now.</p>
</body>
</html>
`

// Sets up HTTP listener configuration for metric querying
func SetupListener(ctx context.Context, port int, search DataSearcher, discover Discoverer, aggregation AggSearcher) (server *http.Server, err error) {
	requestMultiplexer := http.NewServeMux()

	helpPage := []byte(strings.NewReplacer(
		"{LISTEN_ADDR}", global.HTTPListenAddr,
		"{LISTEN_PORT}", strconv.Itoa(port),
		"{DATA_PATH}", global.DataPath,
		"{DISCOVER_PATH}", global.DiscoveryPath,
		"{AGGREGATION_PATH}", global.AggregationPath,
	).Replace(helpTemplate))

	requestMultiplexer.HandleFunc("/", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if clientRequest.URL.Path != "/" {
			serverResponder.WriteHeader(http.StatusNotFound)
			return
		}

		serverResponder.Header().Set("Content-Type", "text/html; charset=utf-8")
		serverResponder.WriteHeader(http.StatusOK)
		serverResponder.Write(helpPage)
	})

	requestMultiplexer.HandleFunc(global.DiscoveryPath, getOnly(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleDiscovery(ctx, discover, serverResponder, clientRequest)
	}))
	requestMultiplexer.HandleFunc(global.DataPath, getOnly(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleData(ctx, search, serverResponder, clientRequest)
	}))
	requestMultiplexer.HandleFunc(global.AggregationPath, getOnly(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		handleAggregation(ctx, aggregation, serverResponder, clientRequest)
	}))

	server = &http.Server{
		Addr:         global.HTTPListenAddr + ":" + strconv.Itoa(port),
		Handler:      requestMultiplexer,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     NewErrorLog(ctx),
	}
	return
}

// Starts the metric HTTP server and waits for requests
func Start(ctx context.Context, server *http.Server) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Metric query server starting on http://%s/\n", server.Addr)

	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Metric query server failed: %v\n", err)
	}
}

func getOnly(handler http.HandlerFunc) (wrapped http.HandlerFunc) {
	wrapped = func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(serverResponder, clientRequest)
	}
	return
}

// Encodes JSON and sends as response body
func jResp(ctx context.Context, serverResponder http.ResponseWriter, content any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(content); err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed marshaling metric results: %v\n", err)
		return
	}
	serverResponder.Header().Set("Content-Type", "application/json")
	serverResponder.WriteHeader(http.StatusOK)
	serverResponder.Write(buf.Bytes())
}

// Routes net/http internal errors into the context logger. Shared by every HTTP listener.
func NewErrorLog(ctx context.Context) (logger *log.Logger) {
	logger = log.New(httpLogWriter{ctx: ctx}, "", 0)
	return
}

func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	if n == 0 {
		return
	}
	logctx.LogEvent(logWriter.ctx, global.VerbosityStandard, global.ErrorLog,
		"%s\n", strings.TrimSpace(string(p)))
	return
}
