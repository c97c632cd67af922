// file: bootstrap.go
package ats

import (
	"os"
)

// createBuilderCapability is the well-known capability invoked to obtain
// the root application builder handle. The id is a name chosen by this
// module; it is the bootstrap's single invocation target.
const createBuilderCapability = "AppHost/createBuilder"

// BuilderOptions carries the arguments passed to CreateBuilder. Args and
// ProjectDirectory are auto-populated from the process environment when
// left unset.
type BuilderOptions struct {
	Args             []string
	ProjectDirectory string
}

// Connect reads REMOTE_APP_HOST_SOCKET_PATH, constructs a Client bound to
// it, connects, and returns the connected client. Any additional options
// are applied before connecting.
func Connect(opts ...ClientOption) (*Client, error) {
	path, err := socketPathFromEnv()
	if err != nil {
		return nil, err
	}

	allOpts := append([]ClientOption{WithSocketPath(path)}, opts...)
	client := NewClient(allOpts...)

	if err := client.Connect(); err != nil {
		return nil, err
	}
	return client, nil
}

// CreateBuilder connects (via Connect) and invokes the well-known builder
// capability, injecting Args and ProjectDirectory from the process
// environment when the caller left them unset. The returned value is the
// decoded result of that invocation — ordinarily a handle that generated
// wrapper code reconstructs into a typed builder proxy.
func CreateBuilder(options BuilderOptions, opts ...ClientOption) (*Client, any, error) {
	client, err := Connect(opts...)
	if err != nil {
		return nil, nil, err
	}

	if options.Args == nil {
		if len(os.Args) > 1 {
			options.Args = os.Args[1:]
		} else {
			options.Args = []string{}
		}
	}
	if options.ProjectDirectory == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, NewConfigError("ats: failed to determine project directory", err)
		}
		options.ProjectDirectory = wd
	}

	args := map[string]any{
		"Args":             options.Args,
		"ProjectDirectory": options.ProjectDirectory,
	}

	result, err := client.InvokeCapability(createBuilderCapability, args)
	if err != nil {
		return nil, nil, err
	}
	return client, result, nil
}
