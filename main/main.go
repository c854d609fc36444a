package main

import (
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/segment"
	"github.com/rawbytedev/segment/pkg/mmapsrc"
	"github.com/rawbytedev/segment/pkg/segwire"
)

func main() {
	input := flag.String("in", "", "file to map; a built-in sample is used when empty")
	rounds := flag.Int("n", 10000, "encode/decode rounds")
	out := flag.String("prof", "mem.prof", "heap profile path")
	compress := flag.Bool("zstd", false, "compress frames")
	hold := flag.Duration("hold", 0, "keep the pprof endpoint alive after the run")
	flag.Parse()

	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	src := segment.FromSlice([]byte("azerty\nhello\nworld\nrandom\n"))
	if *input != "" {
		m, err := mmapsrc.Open(*input)
		if err != nil {
			log.Fatal(err)
		}
		defer m.Close()
		src = m.Segment()
	}

	c, err := segwire.NewCodec(segwire.Options{Compress: *compress, UnsafePrimitives: true, CheckAlignment: true})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	var lines, bytes int
	for i := 0; i < *rounds; i++ {
		for line := range mmapsrc.Lines(src) {
			data, err := segwire.Encode(c, line)
			if err != nil {
				log.Fatal(err)
			}
			res, err := segwire.Decode[byte](c, data)
			if err != nil {
				log.Fatal(err)
			}
			lines++
			bytes += res.Len()
		}
	}
	log.Printf("rounds=%d lines=%d bytes=%d", *rounds, lines, bytes)
	pprof.WriteHeapProfile(f)
	time.Sleep(*hold)
}
