package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/neekrasov/ziplib/internal/archive"
	"github.com/neekrasov/ziplib/internal/codec/deflate"
	"github.com/neekrasov/ziplib/internal/compression"
	"github.com/neekrasov/ziplib/internal/config"
	"github.com/neekrasov/ziplib/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitHash   = "unset"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ziplib",
		Short: "Deflate, gzip, zlib and zip codec tool",
	}
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Path to config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ziplib version %s\nbuild time: %s\nhash: %s\n",
				version, buildTime, gitHash)
		},
	})

	rootCmd.AddCommand(compressCmd(), decompressCmd(), packCmd(), unpackCmd(), listCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func setup(cmd *cobra.Command) config.Config {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.GetConfig(cfgPath)
	if err != nil {
		log.Fatalf("failed to get config: %s", err)
	}

	level, output := "info", ""
	if cfg.Logging != nil {
		level, output = cfg.Logging.Level, cfg.Logging.Output
	}
	logger.InitLogger(level, output)

	return cfg
}

func algorithm(cmd *cobra.Command, cfg config.Config) compression.Type {
	if algo, _ := cmd.Flags().GetString("algorithm"); algo != "" {
		return compression.Type(algo)
	}
	if cfg.Compression != nil && cfg.Compression.Algorithm != "" {
		return compression.Type(cfg.Compression.Algorithm)
	}
	return compression.Gzip
}

func compressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress [file]",
		Short: "Compress a file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := setup(cmd)
			algo := algorithm(cmd, cfg)

			compressor, err := compression.New(algo)
			if err != nil {
				logger.Fatal("unknown algorithm", zap.String("algorithm", string(algo)), zap.Error(err))
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				logger.Fatal("failed to read input", zap.String("path", args[0]), zap.Error(err))
			}

			out, err := compressor.Compress(data)
			if err != nil {
				logger.Fatal("compression failed", zap.Error(err))
			}

			dst, _ := cmd.Flags().GetString("output")
			if dst == "" {
				dst = args[0] + "." + string(algo)
			}
			if err := os.WriteFile(dst, out, 0o644); err != nil {
				logger.Fatal("failed to write output", zap.String("path", dst), zap.Error(err))
			}

			logger.Info("compressed",
				zap.String("path", dst),
				zap.Int("in_bytes", len(data)),
				zap.Int("out_bytes", len(out)))
		},
	}
	cmd.Flags().StringP("algorithm", "a", "", "Compression algorithm (deflate, zlib, gzip, bzip2, zstd)")
	cmd.Flags().StringP("output", "o", "", "Output path")

	return cmd
}

func decompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompress [file]",
		Short: "Decompress a file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := setup(cmd)
			algo := algorithm(cmd, cfg)

			compressor, err := compression.New(algo)
			if err != nil {
				logger.Fatal("unknown algorithm", zap.String("algorithm", string(algo)), zap.Error(err))
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				logger.Fatal("failed to read input", zap.String("path", args[0]), zap.Error(err))
			}

			out, err := compressor.Decompress(data)
			if err != nil {
				logger.Fatal("decompression failed", zap.Error(err))
			}

			dst, _ := cmd.Flags().GetString("output")
			if dst == "" {
				dst = args[0] + ".out"
			}
			if err := os.WriteFile(dst, out, 0o644); err != nil {
				logger.Fatal("failed to write output", zap.String("path", dst), zap.Error(err))
			}

			logger.Info("decompressed", zap.String("path", dst), zap.Int("bytes", len(out)))
		},
	}
	cmd.Flags().StringP("algorithm", "a", "", "Compression algorithm (deflate, zlib, gzip, bzip2, zstd)")
	cmd.Flags().StringP("output", "o", "", "Output path")

	return cmd
}

func packCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack [files...]",
		Short: "Build a zip archive from files",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := setup(cmd)

			workers := 4
			if cfg.Archive != nil && cfg.Archive.Workers > 0 {
				workers = cfg.Archive.Workers
			}
			level := deflate.DefaultCompression
			if cfg.Compression != nil && cfg.Compression.Level > 0 {
				level = deflate.Level(cfg.Compression.Level)
			}

			// Files are read concurrently, but members are added in
			// argument order so the archive layout is deterministic.
			members := make([]archive.Member, len(args))
			var g errgroup.Group
			g.SetLimit(workers)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					info, err := os.Stat(path)
					if err != nil {
						return err
					}
					if info.IsDir() {
						members[i], err = archive.NewDirMember(filepath.ToSlash(path),
							archive.WithModTime(info.ModTime()),
							archive.WithMode(uint32(info.Mode().Perm())))
						return err
					}

					data, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					members[i], err = archive.NewFileMember(filepath.ToSlash(path), data,
						archive.WithModTime(info.ModTime()),
						archive.WithMode(uint32(info.Mode().Perm())),
						archive.WithLevel(level))
					return err
				})
			}
			if err := g.Wait(); err != nil {
				logger.Fatal("failed to collect members", zap.Error(err))
			}

			a := archive.New()
			for _, m := range members {
				a = a.Add(m)
			}

			out, err := archive.Encode(a)
			if err != nil {
				logger.Fatal("failed to encode archive", zap.Error(err))
			}

			dst, _ := cmd.Flags().GetString("output")
			if err := os.WriteFile(dst, out, 0o644); err != nil {
				logger.Fatal("failed to write archive", zap.String("path", dst), zap.Error(err))
			}

			logger.Info("packed", zap.String("path", dst), zap.Int("members", a.Len()))
		},
	}
	cmd.Flags().StringP("output", "o", "archive.zip", "Output archive path")

	return cmd
}

func unpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack [archive]",
		Short: "Extract a zip archive",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setup(cmd)

			data, err := os.ReadFile(args[0])
			if err != nil {
				logger.Fatal("failed to read archive", zap.String("path", args[0]), zap.Error(err))
			}

			a, err := archive.Decode(data)
			if err != nil {
				logger.Fatal("failed to decode archive", zap.Error(err))
			}

			dest, _ := cmd.Flags().GetString("dir")
			for _, m := range a.Members() {
				target := filepath.Join(dest, filepath.FromSlash(m.Path()))
				if !filepath.IsLocal(filepath.FromSlash(m.Path())) {
					logger.Warn("skipping non-local member path", zap.String("path", m.Path()))
					continue
				}

				if m.Kind() == archive.KindDirectory {
					if err := os.MkdirAll(target, os.FileMode(m.Mode())); err != nil {
						logger.Fatal("failed to create directory", zap.String("path", target), zap.Error(err))
					}
					continue
				}

				content, err := m.Content()
				if err != nil {
					logger.Fatal("failed to decode member", zap.String("path", m.Path()), zap.Error(err))
				}
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					logger.Fatal("failed to create directory", zap.String("path", target), zap.Error(err))
				}
				if err := os.WriteFile(target, content, os.FileMode(m.Mode())); err != nil {
					logger.Fatal("failed to write member", zap.String("path", target), zap.Error(err))
				}
				_ = os.Chtimes(target, m.ModTime(), m.ModTime())
			}

			logger.Info("unpacked", zap.String("path", args[0]), zap.Int("members", a.Len()))
		},
	}
	cmd.Flags().StringP("dir", "d", ".", "Destination directory")

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [archive]",
		Short: "List archive members",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setup(cmd)

			data, err := os.ReadFile(args[0])
			if err != nil {
				logger.Fatal("failed to read archive", zap.String("path", args[0]), zap.Error(err))
			}

			a, err := archive.Decode(data)
			if err != nil {
				logger.Fatal("failed to decode archive", zap.Error(err))
			}

			for _, m := range a.Members() {
				name := m.Path()
				if m.Kind() == archive.KindDirectory {
					name += "/"
				}
				fmt.Printf("%8d  %8d  %s  %s\n",
					m.UncompressedSize(), m.CompressedSize(),
					m.ModTime().Format("2006-01-02 15:04:05"), name)
			}
		},
	}
}
