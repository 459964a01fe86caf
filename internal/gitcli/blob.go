package gitcli

import "context"

// BlobContents runs `git cat-file -p <sha1>` and returns the raw blob bytes.
func (r *Repository) BlobContents(ctx context.Context, hash Hash) ([]byte, error) {
	out, err := r.run(ctx, "cat-file", "-p", hash.String())
	if err != nil {
		return nil, err
	}

	return out, nil
}
