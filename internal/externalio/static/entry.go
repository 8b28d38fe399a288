// Static file server for the dashboard front end
package static

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"path"
	"sensorweb/internal/externalio/server"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"slices"
	"strings"
)

func New(namespace []string, rootDir string) (new *Handler) {
	if rootDir == "" {
		rootDir = global.DefaultStaticDir
	}
	new = &Handler{
		Namespace: append(slices.Clone(namespace), global.NSStatic),
		rootDir:   rootDir,
	}
	return
}

// HTTP server for the static handler
func SetupListener(ctx context.Context, bind string, handler *Handler) (srv *http.Server) {
	ctx = logctx.AppendCtxTag(ctx, global.NSStatic)
	srv = &http.Server{
		Addr: bind,
		Handler: http.HandlerFunc(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
			handler.Serve(ctx, serverResponder, clientRequest)
		}),
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     server.NewErrorLog(ctx),
	}
	return
}

// Only GET is served. The bare root redirects to the index page and anything
// that does not resolve to a regular file under the root is 404.
func (handler *Handler) Serve(ctx context.Context, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
		"received HTTP %s %s\n", clientRequest.Method, clientRequest.URL.Path)

	if clientRequest.Method != http.MethodGet {
		handler.Metrics.MethodNotAllowed.Add(1)
		serverResponder.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if clientRequest.URL.Path == "/" {
		handler.Metrics.Redirected.Add(1)
		http.Redirect(serverResponder, clientRequest, global.DefaultIndexPath, http.StatusPermanentRedirect)
		return
	}

	name, ok := resolve(clientRequest.URL.Path)
	if !ok {
		handler.notFound(ctx, serverResponder, clientRequest.URL.Path, "path escapes static root")
		return
	}

	// Opening through os.Root refuses symlinks and .. components leaving the directory
	root, err := os.OpenRoot(handler.rootDir)
	if err != nil {
		handler.notFound(ctx, serverResponder, clientRequest.URL.Path, err.Error())
		return
	}
	defer root.Close()

	file, err := root.Open(name)
	if err != nil {
		handler.notFound(ctx, serverResponder, clientRequest.URL.Path, err.Error())
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		handler.notFound(ctx, serverResponder, clientRequest.URL.Path, "not a regular file")
		return
	}

	handler.Metrics.Served.Add(1)
	http.ServeContent(serverResponder, clientRequest, info.Name(), info.ModTime(), file)
}

// Converts a request path into a slash-separated name relative to the root
func resolve(requestPath string) (name string, ok bool) {
	if strings.Contains(requestPath, "\x00") {
		return
	}
	for _, segment := range strings.Split(requestPath, "/") {
		if segment == ".." {
			return
		}
	}

	cleaned := path.Clean("/" + requestPath)
	name = strings.TrimPrefix(cleaned, "/")
	if name == "" || !fs.ValidPath(name) {
		return
	}
	ok = true
	return
}

func (handler *Handler) notFound(ctx context.Context, serverResponder http.ResponseWriter, requestPath string, reason string) {
	handler.Metrics.NotFound.Add(1)
	logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
		"error on resource %q: %s\n", requestPath, reason)
	serverResponder.WriteHeader(http.StatusNotFound)
}
