/*
Package client wraps the coordinator gRPC services for operator
tooling.

The CLI is the only intended consumer: each method is one control
plane call with a bounded timeout, returning the proto response types
directly. Authentication is a bearer token attached per RPC; TLS is
configured from a CA bundle path and can be skipped for development.

	cli, err := client.New(client.Options{
		Addr:  "coordinator:9410",
		Token: os.Getenv("DROVER_TOKEN"),
		TLSCA: "/etc/drover/ca.pem",
	})
	if err != nil {
		return err
	}
	defer cli.Close()

	id, err := cli.Deploy(ctx, &proto.DeploymentRequest{
		ServiceName:   "checkout",
		TargetVersion: "2.4.0",
		Strategy:      "rolling",
	})

UploadPackage streams a local package file to the coordinator in 256
KiB chunks; the coordinator verifies size and SHA-256 before storing
it, and the returned path is what DeploymentRequest.PackagePath should
reference.
*/
package client
