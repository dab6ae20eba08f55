/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"mapstyle/internal/catalog"
	"mapstyle/internal/config"
	"mapstyle/internal/crash"
	applog "mapstyle/internal/log"
	"mapstyle/internal/preview"
	"mapstyle/internal/stylepack"
	"mapstyle/internal/styles"
	"mapstyle/internal/textlayout"
	"mapstyle/internal/version"

	"github.com/paulmach/orb/geojson"
)

// errUsage marks argument errors; they exit with code 2.
var errUsage = errors.New("usage")

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "mapstyle: map style definition tool")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  mapstyle version|-v|--version               Show version")
	_, _ = fmt.Fprintln(w, "  mapstyle parse <kind> <def>                 Print the normalised definition and its properties")
	_, _ = fmt.Fprintln(w, "  mapstyle check <catalog.yaml>               Report broken catalog entries")
	_, _ = fmt.Fprintln(w, "  mapstyle swatch <kind> <def> <out.svg|png>  Draw a style on a sample geometry")
	_, _ = fmt.Fprintln(w, "  mapstyle legend <catalog.yaml> <out.pdf>    Write a PDF legend of a catalog")
	_, _ = fmt.Fprintln(w, "  mapstyle pack <catalog.yaml> <out.zip>      Bundle a catalog with the icons it uses")
	_, _ = fmt.Fprintln(w, "  mapstyle unpack <pack.zip> <dir>            Install a bundle into <dir>")
	_, _ = fmt.Fprintln(w, "  mapstyle render <kind> <def> <feature.geojson> <zoom>")
	_, _ = fmt.Fprintln(w, "                                              List the primitives drawn for a feature")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Kinds: fill, point, icon, symbol, line, text")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, AddSource: cfg.Logging.Source, File: cfg.Logging.File})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config file ignored", slog.Any("err", cfgErr))
	}

	inv := &crash.Invocation{}
	if len(os.Args) > 1 {
		inv.Command, inv.Args = os.Args[1], os.Args[2:]
	}
	defer crash.Recover(inv)

	l.Debug("start", slog.Int("args", len(os.Args)))
	if code := run(os.Args[1:], cfg, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

// run executes one command and returns the process exit code.
func run(args []string, cfg config.AppConfig, out io.Writer) int {
	if len(args) == 0 {
		usage(out)
		return 2
	}
	l := applog.WithOperation(applog.WithComponent("cli"), args[0])
	var err error
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(out, version.String())
		return 0
	case "help", "--help", "-h":
		usage(out)
		return 0
	case "parse":
		err = cmdParse(args[1:], out)
	case "check":
		err = cmdCheck(args[1:], cfg, out)
	case "swatch":
		err = cmdSwatch(args[1:], cfg, out)
	case "legend":
		err = cmdLegend(args[1:], cfg, out)
	case "render":
		err = cmdRender(args[1:], cfg, out)
	case "pack":
		err = cmdPack(args[1:], cfg, out)
	case "unpack":
		err = cmdUnpack(args[1:], out)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintln(out, strings.TrimPrefix(err.Error(), "usage: "))
		usage(out)
		return 2
	default:
		l.Error("command failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
}

func cmdParse(args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: parse requires <kind> and <def>", errUsage)
	}
	el, err := styles.Parse(args[0], args[1])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "kind: %s\n", el.Kind())
	_, _ = fmt.Fprintf(out, "def: %s\n", el.DefStr())
	if _, ok := el.(*styles.LookupStyle); ok {
		_, _ = fmt.Fprintln(out, "lookup: yes")
	}
	_, _ = fmt.Fprintf(out, "lookup props: %s\n", strings.Join(el.LookupProps(), ", "))
	_, _ = fmt.Fprintf(out, "text props: %s\n", strings.Join(el.TextProps(), ", "))
	return nil
}

func buildOptions(cfg config.AppConfig) catalog.BuildOptions {
	return catalog.BuildOptions{MinArrowLength: cfg.Render.MinArrowLengthPx, MinTextSize: cfg.Render.MinTextSizePt}
}

func cmdCheck(args []string, cfg config.AppConfig, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: check requires <catalog.yaml>", errUsage)
	}
	c, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	built, problems := c.Build(buildOptions(cfg))
	for _, p := range problems {
		_, _ = fmt.Fprintln(out, p.String())
	}
	_, _ = fmt.Fprintf(out, "%d styles ok, %d problems\n", len(built), len(problems))
	if len(problems) > 0 {
		return fmt.Errorf("%d broken styles in %s", len(problems), args[0])
	}
	return nil
}

// setup installs the icon sizer and font provider from the preview config and
// returns matching preview options.
func setup(cfg config.AppConfig) preview.Options {
	l := applog.WithComponent("cli")
	opt := preview.Options{Width: cfg.Preview.Width, Height: cfg.Preview.Height}
	if dir := strings.TrimSpace(cfg.Preview.IconDir); dir != "" {
		fsys := os.DirFS(dir)
		styles.SetIconSizer(styles.NewFSIconSizer(fsys))
		opt.Icons = fsys
	}
	if ff := strings.TrimSpace(cfg.Preview.FontFile); ff != "" {
		lib := textlayout.NewFontLibrary()
		if err := lib.LoadFile("sans-serif", 400, false, ff); err != nil {
			l.Warn("font not loaded, using the built-in face", slog.String("file", ff), slog.Any("err", err))
		} else {
			p := textlayout.OTProvider{Lib: lib}
			styles.SetFontProvider(p)
			opt.Fonts = p
		}
	}
	return opt
}

func cmdSwatch(args []string, cfg config.AppConfig, out io.Writer) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: swatch requires <kind> <def> <out>", errUsage)
	}
	el, err := styles.Parse(args[0], args[1])
	if err != nil {
		return err
	}
	opt := setup(cfg)
	if err := preview.WriteFile(args[2], el, preview.KindFor(el), opt); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Wrote", args[2])
	return nil
}

func cmdLegend(args []string, cfg config.AppConfig, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: legend requires <catalog.yaml> <out.pdf>", errUsage)
	}
	c, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	built, problems := c.Build(buildOptions(cfg))
	for _, p := range problems {
		applog.WithComponent("cli").Warn("style left out of legend", slog.String("style", p.String()))
	}
	entries := make([]preview.LegendEntry, 0, len(built))
	for _, b := range built {
		name := b.Name
		if b.Layer != "" {
			name = b.Layer + " / " + b.Name
		}
		entries = append(entries, preview.LegendEntry{Name: name, Element: b.Element, Kind: preview.KindFor(b.Element)})
	}
	opt := preview.LegendOptions{Title: args[0], Preview: setup(cfg)}
	if err := preview.Legend(args[1], entries, opt); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Wrote %s with %d styles\n", args[1], len(entries))
	return nil
}

func cmdRender(args []string, cfg config.AppConfig, out io.Writer) error {
	if len(args) < 4 {
		return fmt.Errorf("%w: render requires <kind> <def> <feature.geojson> <zoom>", errUsage)
	}
	zoom, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("%w: zoom %q is not a number", errUsage, args[3])
	}
	el, err := styles.Parse(args[0], args[1])
	if err != nil {
		return err
	}
	el = catalog.Apply(el, buildOptions(cfg))
	data, err := os.ReadFile(args[2])
	if err != nil {
		return fmt.Errorf("read feature: %w", err)
	}
	gf, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return fmt.Errorf("parse feature: %w", err)
	}
	setup(cfg)
	view := styles.NewMapView(cfg.Render.Projection, cfg.Render.TileSize)
	if view.Projection() != strings.ToUpper(cfg.Render.Projection) {
		applog.WithComponent("cli").Warn("unsupported projection, using EPSG:3857", slog.String("projection", cfg.Render.Projection))
	}
	res := view.ResolutionForZoom(zoom)
	prims := el.Render(view).Resolve(styles.FromGeoJSON(gf), res)
	_, _ = fmt.Fprintf(out, "projection %s, zoom %s, resolution %s m/px\n", view.Projection(), strconv.FormatFloat(zoom, 'f', -1, 64), strconv.FormatFloat(res, 'f', 4, 64))
	if len(prims) == 0 {
		_, _ = fmt.Fprintln(out, "nothing drawn")
		return nil
	}
	for i, p := range prims {
		_, _ = fmt.Fprintf(out, "%d: %s\n", i+1, describe(p))
	}
	return nil
}

func cmdPack(args []string, cfg config.AppConfig, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: pack requires <catalog.yaml> <out.zip>", errUsage)
	}
	n, err := stylepack.Export(args[0], cfg.Preview.IconDir, args[1])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Wrote %s with %d icons\n", args[1], n)
	return nil
}

func cmdUnpack(args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: unpack requires <pack.zip> <dir>", errUsage)
	}
	n, err := stylepack.Install(args[0], args[1])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Installed %d files into %s\n", n, args[1])
	return nil
}
