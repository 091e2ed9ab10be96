package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frame-bridge/pkg/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInfoCmd)

	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only show these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
	})
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration keys",
}

// fieldInfo is a config key with its default and effective value.
type fieldInfo struct {
	Key         string `json:"key"`
	Default     any    `json:"default"`
	Value       any    `json:"value"`
	Description string `json:"description"`
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show every configuration key with its default and current value",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := configInfo(lo.Must(cmd.Flags().GetStringSlice("key")))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if lo.Must(cmd.Flags().GetBool("json")) {
			return json.NewEncoder(out).Encode(infos)
		}
		for _, f := range infos {
			fmt.Fprintf(out, "%s = %v (default %v)\n    %s\n", f.Key, f.Value, f.Default, f.Description)
		}
		return nil
	},
}

func errUnknownKey(k string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
	return fmt.Errorf("unknown key %s, did you mean %s?", k, closest)
}

func configInfo(keys []string) ([]fieldInfo, error) {
	fields := lo.Values(config.Default)
	if len(keys) > 0 {
		fields = fields[:0]
		for _, k := range keys {
			f, ok := config.Default[k]
			if !ok {
				return nil, errUnknownKey(k)
			}
			fields = append(fields, f)
		}
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})

	return lo.Map(fields, func(f config.Field, _ int) fieldInfo {
		return fieldInfo{Key: f.Key, Default: f.Value, Value: viper.Get(f.Key), Description: f.Description}
	}), nil
}
