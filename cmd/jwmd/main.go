package main

import "os"

func main() {
	if err := newRootCmd(runBatch).Execute(); err != nil {
		os.Exit(1)
	}
}
