package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"tcrdcore/internal/blob"
	"tcrdcore/internal/errors"
	"tcrdcore/internal/logger"
)

func newFamiliesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "families",
		Short: "Manage protein family files in the blob store",
	}
	var key string
	put := &cobra.Command{
		Use:   "put <file>",
		Short: "Upload a family file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFamiliesPut(cmd, args[0], key)
		},
	}
	put.Flags().StringVar(&key, "key", "", "destination key (default: file name)")
	ls := &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List stored family files",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runFamiliesList,
	}
	cmd.AddCommand(put, ls)
	return cmd
}

func (a *app) runFamiliesPut(cmd *cobra.Command, path, key string) error {
	if key == "" {
		key = filepath.Base(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.MarkIO(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	store, err := blob.Open(cmd.Context(), a.cfg.Blob)
	if err != nil {
		return err
	}
	info, err := store.Put(cmd.Context(), key, f, blob.PutOptions{
		ContentType: "text/tab-separated-values",
		Metadata:    map[string]string{"source": filepath.Base(path)},
	})
	if err != nil {
		return errors.MarkIO(err, "store family file %s", key)
	}
	a.log.Infow("stored family file", logger.FieldKey, info.Key, "size", info.Size, logger.FieldDriver, store.Driver())
	a.writer(cmd).Linef("%s\t%d", info.Key, info.Size)
	return nil
}

func (a *app) runFamiliesList(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	store, err := blob.Open(cmd.Context(), a.cfg.Blob)
	if err != nil {
		return err
	}
	infos, err := store.List(cmd.Context(), prefix)
	if err != nil {
		return errors.MarkIO(err, "list family files")
	}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Key, strconv.FormatInt(info.Size, 10), info.LastModified.Format("2006-01-02T15:04:05Z07:00")})
	}
	w := a.writer(cmd)
	w.Section([]string{"Key", "Size", "Modified"}, rows)
	return w.Err()
}
