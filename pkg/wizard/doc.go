// Package wizard turns a Route, an ordered list of steps under a base URL,
// into chi routes.
//
// A step without a Handler renders its template on GET. When Next is set the
// step also accepts POST: form values are merged into the visitor session
// under the route key and the client is redirected (303) to Next, resolved
// against the route base URL.
//
//	wz, err := wizard.New(wizard.Route{
//	    BaseURL: "/apply",
//	    Steps: []wizard.Step{
//	        {Path: "/", Next: "name"},
//	        {Path: "/name", Next: "done"},
//	        {Path: "/done"},
//	    },
//	}, wizard.Config{Renderer: renderer, Sessions: sessions})
//	if err != nil {
//	    return err
//	}
//	wz.Register(router)
package wizard
