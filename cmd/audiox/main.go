// audiox is a command-line tool for inspecting and converting audio
// container files (spec.md §6): info, convert, extract, metadata, formats,
// version. Dispatch follows the teacher's main.go idiom: a leading
// command-name argument, a manual os.Args rewrite so each subcommand's own
// flags parse correctly, and errors logged with "%+v" to print a
// github.com/pkg/errors stack trace where one is present.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/convert"
	"github.com/mewkiz/audiox/flac"
	"github.com/mewkiz/audiox/registry"
)

const version = "audiox 0.1.0"

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: audiox [info|convert|extract|metadata|formats|version] [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "info FILE")
	fmt.Fprintln(os.Stderr, "  Print track and container information.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "convert [OPTION]... -o OUT FILE")
	fmt.Fprintln(os.Stderr, "  Convert FILE to the format named by OUT's extension.")
	fmt.Fprintln(os.Stderr, "  -o string        output path (required)")
	fmt.Fprintln(os.Stderr, "  -start float     start time in seconds")
	fmt.Fprintln(os.Stderr, "  -end float       end time in seconds")
	fmt.Fprintln(os.Stderr, "  -codec string    output codec tag override")
	fmt.Fprintln(os.Stderr, "  -samplerate int  output sample rate override")
	fmt.Fprintln(os.Stderr, "  -channels int    output channel count override")
	fmt.Fprintln(os.Stderr, "  -bitdepth int    output bit depth override")
	fmt.Fprintln(os.Stderr, "  -bitrate int     output bitrate override (bps)")
	fmt.Fprintln(os.Stderr, "  -progress        print progress to stderr")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "extract -o OUT FILE")
	fmt.Fprintln(os.Stderr, "  Copy FILE's audio track into OUT without any value overrides.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "metadata FILE...")
	fmt.Fprintln(os.Stderr, "  Print the metadata record of each FILE.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "formats")
	fmt.Fprintln(os.Stderr, "  List the container formats this tool can read and write.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "version")
	fmt.Fprintln(os.Stderr, "  Print the tool version.")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)
	args := os.Args[1:]

	reg := registry.New()

	var err error
	switch command {
	case "info":
		err = runInfo(reg, args)
	case "convert":
		err = runConvert(reg, args)
	case "extract":
		err = runExtract(reg, args)
	case "metadata":
		err = runMetadata(reg, args)
	case "formats":
		runFormats(reg)
	case "version":
		fmt.Println(version)
	default:
		log.Fatalf("unknown command: %s", command)
	}
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func openDemuxer(reg *registry.Registry, path string) (audiox.Demuxer, error) {
	r := audiox.NewReader(audiox.NewFileSource(path))
	f, err := reg.Detect(r)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, audiox.ErrUnsupportedFormat("no registered format recognizes %q", path)
	}
	demux := f.NewDemuxer(r)
	if err := demux.Init(); err != nil {
		return nil, err
	}
	return demux, nil
}

func runInfo(reg *registry.Registry, paths []string) error {
	if len(paths) < 1 {
		return audiox.ErrInvalidContainer("info requires a file argument")
	}
	for _, path := range paths {
		demux, err := openDemuxer(reg, path)
		if err != nil {
			return err
		}
		track := demux.Track()
		fmt.Printf("%s:\n", path)
		fmt.Printf("  codec:        %s\n", track.CodecTag)
		fmt.Printf("  sample rate:  %d Hz\n", track.SampleRate)
		fmt.Printf("  channels:     %d\n", track.Channels)
		if track.BitDepth > 0 {
			fmt.Printf("  bit depth:    %d\n", track.BitDepth)
		}
		if track.Bitrate > 0 {
			fmt.Printf("  bitrate:      %d bps\n", track.Bitrate)
		}
		fmt.Printf("  duration:     %.3fs\n", track.Duration)
		if err := demux.Close(); err != nil {
			return err
		}
	}
	return nil
}

func runMetadata(reg *registry.Registry, paths []string) error {
	if len(paths) < 1 {
		return audiox.ErrInvalidContainer("metadata requires a file argument")
	}
	for _, path := range paths {
		demux, err := openDemuxer(reg, path)
		if err != nil {
			return err
		}
		meta := demux.Metadata()
		fmt.Printf("%s:\n", path)
		printIfSet("title", meta.Title)
		printIfSet("artist", meta.Artist)
		printIfSet("album", meta.Album)
		printIfSet("album artist", meta.AlbumArtist)
		printIfSet("genre", meta.Genre)
		if meta.HasYear {
			fmt.Printf("  year:         %d\n", meta.Year)
		}
		if meta.HasTrackNumber {
			fmt.Printf("  track:        %d\n", meta.TrackNumber)
		}
		if len(meta.CoverArt) > 0 {
			fmt.Printf("  cover art:    %d image(s)\n", len(meta.CoverArt))
		}
		if fd, ok := demux.(*flac.Demuxer); ok {
			for _, app := range fd.Applications() {
				fmt.Printf("  application:  %s (%s)\n", app.ID, app.Description())
			}
		}
		if err := demux.Close(); err != nil {
			return err
		}
	}
	return nil
}

func printIfSet(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-13s %s\n", label+":", value)
}

func runFormats(reg *registry.Registry) {
	for _, info := range reg.Describe() {
		fmt.Printf("%-6s %-14s %s\n", info.Name, info.MIME, strings.Join(info.Extensions, ", "))
	}
}

func outputFormatFor(reg *registry.Registry, outPath string) (audiox.OutputFormat, error) {
	ext := strings.TrimPrefix(filepath.Ext(outPath), ".")
	if f, ok := reg.OutputByName(ext); ok {
		return f, nil
	}
	if inFmt, ok := reg.ByExtension(ext); ok {
		if f, ok := inFmt.(audiox.OutputFormat); ok {
			return f, nil
		}
	}
	return nil, audiox.ErrUnsupportedFormat("no registered format for output extension %q", ext)
}

func runConvert(reg *registry.Registry, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	out := fs.String("o", "", "output path")
	start := fs.Float64("start", 0, "start time in seconds")
	end := fs.Float64("end", 0, "end time in seconds")
	codec := fs.String("codec", "", "output codec tag override")
	sampleRate := fs.Uint("samplerate", 0, "output sample rate override")
	channels := fs.Uint("channels", 0, "output channel count override")
	bitDepth := fs.Uint("bitdepth", 0, "output bit depth override")
	bitrate := fs.Uint("bitrate", 0, "output bitrate override")
	progress := fs.Bool("progress", false, "print progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" || fs.NArg() < 1 {
		return audiox.ErrInvalidContainer("convert requires -o and an input file")
	}
	return convertOne(reg, fs.Arg(0), *out, convert.Options{
		StartTime:  *start,
		EndTime:    *end,
		CodecTag:   *codec,
		SampleRate: uint32(*sampleRate),
		Channels:   uint8(*channels),
		BitDepth:   uint8(*bitDepth),
		Bitrate:    uint32(*bitrate),
	}, *progress)
}

func runExtract(reg *registry.Registry, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	out := fs.String("o", "", "output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" || fs.NArg() < 1 {
		return audiox.ErrInvalidContainer("extract requires -o and an input file")
	}
	return convertOne(reg, fs.Arg(0), *out, convert.Options{}, false)
}

func convertOne(reg *registry.Registry, inPath, outPath string, opts convert.Options, progress bool) error {
	demux, err := openDemuxer(reg, inPath)
	if err != nil {
		return err
	}
	defer demux.Close()

	outFmt, err := outputFormatFor(reg, outPath)
	if err != nil {
		return err
	}
	w := audiox.NewWriter(audiox.NewFileTarget(outPath))
	mux := outFmt.NewMuxer(w)

	if progress {
		opts.OnProgress = func(p audiox.ProgressInfo) {
			fmt.Fprintf(os.Stderr, "\r%.1f%% (%.1fs/%.1fs)", p.Percentage, p.CurrentTime, p.TotalTime)
		}
	}

	conv := convert.New(demux, mux, opts)
	if err := conv.Initialize(); err != nil {
		return err
	}
	if err := conv.Run(); err != nil {
		return err
	}
	if progress {
		fmt.Fprintln(os.Stderr)
	}
	return mux.Close()
}
