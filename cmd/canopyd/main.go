package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/atol-canopy/canopy/cmd/canopyd/handlers"
	bconf "github.com/atol-canopy/canopy/pkg/configs/backend"
	"github.com/atol-canopy/canopy/pkg/domain"
	"github.com/atol-canopy/canopy/pkg/domain/canopy"
	"github.com/atol-canopy/canopy/pkg/utils/echoutil"
	"github.com/atol-canopy/canopy/pkg/utils/filewatch"
)

func main() {
	configPath := flag.String("config-path", "", "backend config path")
	schemaRepo := flag.String("schema-repo", "", "schema repository directory (optional)")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	conf, err := bconf.LoadBackendConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	echoutil.SetLevel(e, conf.LogLevel())
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	ctx := context.Background()
	{
		// restart when the config file is replaced under us
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(wctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
	}

	options := []canopy.Option{}
	if *schemaRepo != "" {
		options = append(options, canopy.WithSchemaRepository(*schemaRepo))
	}
	cp, err := canopy.Default(ctx, conf, options...)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}

	if *schemaRepo != "" {
		// refuse to serve against an outdated schema
		sctx, cancel := cp.Schema().Database().Context(ctx)
		defer cancel()
		context.AfterFunc(sctx, func() {
			if err := context.Cause(sctx); err != nil && err != context.Canceled {
				log.Panicf("database schema error: %s", err)
			}
		})
	}

	api := func(p string) string { return "/api" + p }

	{
		e.POST(api("/auth/login/"), handlers.LoginHandler(cp.Session()))
		e.POST(api("/auth/refresh/"), handlers.RefreshHandler(cp.Session()))
		e.POST(
			api("/auth/logout/"),
			handlers.LogoutHandler(cp.Session()),
			handlers.Authenticated(cp.Session()),
		)
	}

	authed := handlers.Authenticated(cp.Session())
	admin := handlers.HasAnyRole(domain.RoleAdmin)
	curator := handlers.HasAnyRole(domain.RoleCurator, domain.RoleAdmin)

	{
		userId := "userId"
		e.GET(api("/users/"), handlers.ListUsersHandler(cp.Session().Database()), authed, admin)
		e.POST(
			api("/users/"),
			handlers.CreateUserHandler(cp.Session().Database(), cp.PasswordHasher()),
			authed, admin,
		)
		e.GET(api("/users/:userId/"), handlers.GetUserHandler(cp.Session().Database(), userId), authed, admin)
		e.PUT(
			api("/users/:userId/"),
			handlers.UpdateUserHandler(cp.Session().Database(), cp.PasswordHasher(), userId),
			authed, admin,
		)
		e.DELETE(api("/users/:userId/"), handlers.DeleteUserHandler(cp.Session().Database(), userId), authed, admin)
	}

	{
		entityId := "entityId"
		e.GET(api("/entities/:kind/"), handlers.FindEntityHandler(cp.Entity().Database()), authed)
		e.POST(api("/entities/:kind/"), handlers.IngestEntityHandler(cp.Reconcile()), authed, curator)
		e.POST(api("/entities/:kind/bulk/"), handlers.BulkIngestHandler(cp.Reconcile()), authed, curator)
		e.GET(api("/entities/:kind/:entityId/"), handlers.GetEntityHandler(cp.Entity().Database(), entityId), authed)
		e.PUT(
			api("/entities/:kind/:entityId/"),
			handlers.UpdateEntityHandler(cp.Entity().Database(), entityId),
			authed, curator,
		)
		e.DELETE(
			api("/entities/:kind/:entityId/"),
			handlers.DeleteEntityHandler(cp.Entity().Database(), entityId),
			authed, admin,
		)

		e.POST(
			api("/entities/:kind/:entityId/drafts/"),
			handlers.CreateDraftHandler(cp.Reconcile(), entityId),
			authed, curator,
		)
		e.GET(
			api("/entities/:kind/:entityId/drafts/active/"),
			handlers.ActiveDraftHandler(cp.Staging().Database(), entityId),
			authed,
		)
		e.GET(
			api("/entities/:kind/:entityId/submission-payload/"),
			handlers.SubmissionPayloadHandler(cp.Reconcile(), entityId),
			authed,
		)

		e.POST(
			api("/entities/:kind/:entityId/fetched/"),
			handlers.RecordFetchHandler(cp.Reconcile(), entityId),
			authed, curator,
		)
		e.GET(
			api("/entities/:kind/:entityId/fetched/"),
			handlers.HistoryHandler(cp.History().Database(), entityId),
			authed,
		)

		e.GET(
			api("/entities/:kind/:entityId/relations/"),
			handlers.ListRelationsHandler(cp.Linkage().Database(), entityId),
			authed,
		)
	}

	{
		submittedId := "submittedId"
		e.GET(api("/submissions/"), handlers.ListSubmittedHandler(cp.Staging().Database()), authed)
		e.GET(api("/submissions/:submittedId/"), handlers.GetSubmittedHandler(cp.Staging().Database(), submittedId), authed)
		e.PUT(
			api("/submissions/:submittedId/status/"),
			handlers.TransitionHandler(cp.Staging().Database(), submittedId),
			authed, curator,
		)
	}

	{
		e.POST(api("/relations/"), handlers.AddRelationHandler(cp.Linkage().Database()), authed, curator)
		e.DELETE(
			api("/relations/:relationId/"),
			handlers.DeleteRelationHandler(cp.Linkage().Database(), "relationId"),
			authed, curator,
		)
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	addr := fmt.Sprintf(":%d", conf.Port())
	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(addr, cert, key))
	} else {
		e.Logger.Fatal(e.Start(addr))
	}
}
