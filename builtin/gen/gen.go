// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen embeds the ABI definitions of the builtin contracts.
package gen

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed compiled
var compiled embed.FS

// MustAsset returns the named asset, e.g. "compiled/NodeStake.abi".
func MustAsset(name string) []byte {
	data, err := compiled.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}

// ABINames lists the contracts that ship an ABI, sorted.
func ABINames() []string {
	entries, err := fs.ReadDir(compiled, "compiled")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if ext := path.Ext(e.Name()); ext == ".abi" {
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(names)
	return names
}
