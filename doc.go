// Package bootstrap assembles and runs a web application from a declarative
// list of routes, each made of ordered steps.
//
// Configuration is layered by a config.Provider: built-in defaults, then
// overrides registered with Configure, then the options passed to New.
//
//	provider, err := config.DefaultProvider()
//	if err != nil {
//	    return err
//	}
//	provider.Configure("appName", "Apply for a licence")
//
//	app, err := bootstrap.New(ctx, provider, config.Options{
//	    "routes": []wizard.Route{{
//	        BaseURL: "/apply",
//	        Steps: []wizard.Step{
//	            {Path: "/", Next: "name"},
//	            {Path: "/name", Next: "done"},
//	            {Path: "/done"},
//	        },
//	    }},
//	})
//	if err != nil {
//	    return err
//	}
//	defer app.Close()
//	return app.Run(ctx)
//
// New runs a fixed pipeline of named stages (see Stages): configuration,
// theme, translations, security headers, health check, validation, request
// logging, configured middleware, static assets, sessions, request settings,
// cookie and terms pages, the user middleware registry (App.Use), cookie
// consent, metrics, routes and finally the error handlers. Middleware added
// by a stage applies to everything registered by later stages, and the
// not-found handler runs behind the complete chain.
//
// New starts the server unless the "start" option is false. An App moves
// from unstarted to started to stopped and cannot be restarted.
package bootstrap
