// Command server runs an application described by a YAML file.
//
// Usage:
//
//	# Serve the routes declared in app.yaml
//	server serve --config app.yaml
//
//	# Override the listen port and environment
//	server serve --config app.yaml --port 8080 --env production
//
//	# Print the routes the application would serve
//	server routes --config app.yaml
//
// The file holds the same keys as config.Options:
//
//	appName: apply
//	theme: basic
//	routes:
//	  - baseUrl: /apply
//	    steps:
//	      - path: /
//	        next: name
//	      - path: /name
package main

func main() {
	Execute()
}
