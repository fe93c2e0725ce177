/*
Copyright © 2021 Joseph Lewis <joseph@josephlewis.net>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
)

// img2fs converts a Docker image to a filesystem
var img2fs = &cobra.Command{
	Use:   "img2fs INPUT_TAR OUTPUT_TAR [TAG]",
	Short: "Convert a docker image to a .tar for use as a root filesystem.",
	Long: `Convert a docker image to a .tar for use as a root filesystem.

Prepare an image by running the following:

	docker pull some-image:latest
	docker save some-image:latest > some-image.tar
	tarsh img2fs some-image.tar fs.tar.gz

Output ending in .gz is compressed. Layers are flattened, files deleted by
later layers don't appear in the output.
`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var tag string
		if len(args) == 3 {
			tag = args[2]
		}

		return convertImage(args[0], args[1], tag)
	},
}

// findTag returns the only tag in a docker save archive.
func findTag(inputPath string) (name.Tag, error) {
	manifest, err := tarball.LoadManifest(func() (io.ReadCloser, error) {
		return os.Open(inputPath)
	})
	if err != nil {
		return name.Tag{}, err
	}

	var tags []string
	for _, m := range manifest {
		tags = append(tags, m.RepoTags...)
	}

	if len(tags) != 1 {
		return name.Tag{}, fmt.Errorf("expected exactly one tag in the input, specify one of: %q", tags)
	}

	return name.NewTag(tags[0])
}

// convertImage flattens the image tagged tagName in inputPath into a single
// filesystem archive at outputPath. An empty tag is looked up from the input.
func convertImage(inputPath, outputPath, tagName string) error {
	var tag name.Tag
	var err error
	if tagName != "" {
		tag, err = name.NewTag(tagName)
	} else {
		tag, err = findTag(inputPath)
	}
	if err != nil {
		return err
	}

	image, err := tarball.ImageFromPath(inputPath, &tag)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	var w io.WriteCloser = out
	if strings.HasSuffix(outputPath, ".gz") {
		w = gzip.NewWriter(out)
	}

	fsReader := mutate.Extract(image)
	defer fsReader.Close()

	if _, err := io.Copy(w, fsReader); err != nil {
		return fmt.Errorf("couldn't flatten image: %w", err)
	}

	if w != out {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return out.Close()
}

func init() {
	rootCmd.AddCommand(img2fs)
}
