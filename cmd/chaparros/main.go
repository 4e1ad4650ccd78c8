package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/DarwinGalicia/chaparrOS/boot"
	"github.com/DarwinGalicia/chaparrOS/fs"
)

var (
	conf  = flag.String("conf", "", "machine configuration file (yaml)")
	trace = flag.Bool("trace", false, "verbose kernel trace")
)

func main() {
	flag.Parse()

	param := boot.DefaultParam()
	if *conf != "" {
		var err error
		param, err = boot.ReadParam(*conf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", *conf, err)
			os.Exit(1)
		}
	}
	if *trace {
		param.Trace = true
	}

	m, err := boot.Boot(param, os.Stdout, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("chaparrOS, %s disk, %s block cache\n",
		humanize.IBytes(uint64(param.DiskBlocks*fs.BSIZE)),
		humanize.IBytes(uint64(param.CacheSlots*fs.BSIZE)))

	if flag.NArg() == 0 {
		fmt.Println("usage: chaparros [flags] cmdline...")
		os.Exit(1)
	}

	status, up := m.Run(strings.Join(flag.Args(), " "))
	if !up {
		fmt.Println("machine halted")
		return
	}
	os.Exit(status & 0xff)
}
