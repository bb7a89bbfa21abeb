// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

// goxir_runtimes lists the execution runtimes and opaque functions registered
// in this binary, and optionally runs a small demo graph on one of them.
//
// Usage:
//
//	goxir_runtimes            # list registrations
//	goxir_runtimes -demo      # also run the demo graph on -runtime
package main

import (
	"flag"
	"fmt"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/goxir/goxir/graph"
	"github.com/goxir/goxir/internal/must"
	"github.com/goxir/goxir/opaquefunc"
	"github.com/goxir/goxir/runtime"
	_ "github.com/goxir/goxir/runtime/cpu"
	"github.com/goxir/goxir/types/xbuffer"
)

var (
	flagDemo    = flag.Bool("demo", false, "Run a small demo graph on the runtime given by -runtime.")
	flagRuntime = flag.String("runtime", "cpu", "Runtime to run the demo graph on.")
	flagTarget  = flag.String("target", "cpu", "Target device/variant for the demo graph.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	fmt.Println("Registered runtimes:")
	for _, name := range runtime.Runtimes() {
		fmt.Printf("\t%s\n", name)
	}
	keys := opaquefunc.Global().Keys()
	fmt.Printf("Registered opaque functions: %d\n", len(keys))
	for _, key := range keys {
		fmt.Printf("\t%s\n", key)
	}

	if *flagDemo {
		runDemo()
	}
}

// runDemo executes relu(x+y) for two 4-element vectors.
func runDemo() {
	if !runtime.Exists(*flagRuntime) {
		klog.Exitf("runtime %q is not registered in this binary (registered: %v)",
			*flagRuntime, runtime.Runtimes())
	}

	g := graph.New("demo")
	must.M1(g.AddNode("x", "Input"))
	must.M1(g.AddNode("y", "Input"))
	must.M1(g.AddNode("sum", "Add", "x", "y"))
	must.M1(g.AddNode("out", "ReLU", "sum"))

	rtMod := runtime.MustGetRuntimeModule(g, *flagTarget,
		[]string{"x", "y"}, []string{"out"}, *flagRuntime, nil)

	xs := must.M1(xbuffer.FromFloat32([]float32{1, -2, 3, -4}, 4))
	ys := must.M1(xbuffer.FromFloat32([]float32{-3, 1, 4, -1}, 4))
	out := must.M1(xbuffer.New(xbuffer.Float32, 4))
	must.M(rtMod.Execute([]*xbuffer.Buffer{xs, ys}, []*xbuffer.Buffer{out}))

	results := must.M1(out.Float32s())
	fmt.Printf("Demo relu(x+y) on %q: %v (%s per buffer, %s total)\n",
		rtMod.Runtime(), results, out.SizeString(),
		humanize.Bytes(uint64(xs.SizeBytes()+ys.SizeBytes()+out.SizeBytes())))
}
