package main

import (
	"github.com/cougar-robotics/cougarlog/cmd/cougarlog/cmd"
	"github.com/cougar-robotics/cougarlog/pkg/di"
)

func main() {
	// Initialize dependency injection container
	container := di.NewContainer()

	// Inject dependencies into cmd package
	cmd.SetContainer(container)

	cmd.Execute()
}
