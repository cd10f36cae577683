//
// Articles API
// ============
// A REST web service for articles: create, read, update, delete, list and
// favorite, addressed by slug and backed by a Redis document store.
//
// Boot the server:
// ----------------
// $ go run .
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/articles
// {"articles":[],"articlesCount":0}
//
// $ curl -H "Authorization: Bearer <jwt>" -X POST \
//     -d '{"article":{"title":"Hi","description":"d","body":"b"}}' \
//     http://localhost:3333/articles
// {"article":{"slug":"hi",...,"favoritesCount":0}}
//
// $ curl http://localhost:3333/articles/hi
// {"article":{"slug":"hi",...}}
//
// Passing -routes prints the generated router docs instead of serving.
//
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"github.com/realworld-apps/articles-api/internal/article"
	"github.com/realworld-apps/articles-api/internal/auth"
	"github.com/realworld-apps/articles-api/internal/store"
)

const ServiceName = "articles"

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      Config
}

// nolint
func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// nolint
	var (
		routes    = flag.Bool("routes", getEnvBool(ServiceName+"_routes", false), "Generate router documentation")
		addr      = flag.String("addr", getEnv(ServiceName+"_ADDR", ":3333"), "application port")
		diagPort  = flag.String("diag_addr", getEnv(ServiceName+"_DIAG_ADDR", ":9999"), "diag port")
		redisURL  = flag.String("redis_url", getEnv(ServiceName+"_REDIS_URL", "redis://localhost:6379"), "redis connection URL")
		jwtSecret = flag.String("jwt_secret", getEnv(ServiceName+"_JWT_SECRET", ""), "shared HMAC secret for bearer tokens")
	)

	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	a := App{
		sugarLogger: sugar,
		config: Config{
			Addr:      *addr,
			DiagAddr:  *diagPort,
			RedisURL:  *redisURL,
			JWTSecret: *jwtSecret,
		},
	}

	if a.config.JWTSecret == "" {
		sugar.Warnw("jwt secret not set, all authenticated routes will reject")
	}

	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		a.sugarLogger.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := global.Meter(ServiceName)
	labels := []attribute.KeyValue{
		attribute.String("resource", "articles")}
	RequestCompletedCount := metric.Must(meter).NewInt64Counter(
		"http/server/completed_count",
		metric.WithDescription("Count of completed requests, by resource"),
	).Bind(labels...)
	defer RequestCompletedCount.Unbind()

	db, err := store.NewWithURL(a.config.RedisURL)
	if err != nil {
		a.sugarLogger.Panicf("failed to connect to redis %v", err)
	}
	defer db.Close()

	verifier := auth.NewVerifier([]byte(a.config.JWTSecret))
	articles := &article.Resource{
		Store:  db,
		Logger: sugar,
	}

	r := chi.NewRouter()

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(a.CountCompleted(RequestCompletedCount))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("root."))
		if err != nil {
			sugar.Errorw(err.Error())
		}
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger := r.Context().Value(CtxKeyLogger).(*zap.SugaredLogger)
		logger.Infow("ping with middle")
		_, err := w.Write([]byte("pong"))
		if err != nil {
			sugar.Errorw(err.Error())
		}
	})

	r.Mount("/articles", articles.Routes(verifier))

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if *routes {
		// nolint
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/realworld-apps/articles-api",
			Intro:       "Welcome to the articles-api generated docs.",
		}))

		return
	}

	go func() {
		err = http.ListenAndServe(a.config.Addr, r)
		if err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	}()

	err = http.ListenAndServe(a.config.DiagAddr, diagRouter)
	if err != nil {
		a.sugarLogger.Errorw(err.Error())
	}
}

// Logger puts the request-scoped sugared logger on the context.
func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, a.sugarLogger)))
	})
}

// CountCompleted bumps the completed-request counter once per request.
func (a *App) CountCompleted(counter metric.BoundInt64Counter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			counter.Add(r.Context(), 1)
		})
	}
}

// This is entirely optional, but it adds our own logic to the render.Respond
// method: raw error values are logged and masked before they reach a client.
// nolint
func init() {
	render.Respond = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		if err, ok := v.(error); ok {

			// We set a default error status response code if one hasn't been set.
			if _, ok := r.Context().Value(render.StatusCtxKey).(int); !ok {
				w.WriteHeader(400)
			}

			// We log the error
			// nolint
			fmt.Printf("Logging err: %s\n", err.Error())

			// We change the response to not reveal the actual error message,
			// instead we can transform the message something more friendly or mapped
			// to some code / language, etc.
			render.DefaultResponder(w, r, render.M{"status": "error"})

			return
		}

		render.DefaultResponder(w, r, v)
	}
}
