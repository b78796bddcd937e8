/*
The sync package implements jconf's sync algorithm. It copies files between an
origin tree and its linked copy under the output root, one direction at a time.

There are two types of trees:
1) Origin trees -- These are the files where the programs that use them expect
   them to be, e.g. `~/.config/nvim`.
2) Linked trees -- These are the copies kept under `<output>/<config name>`,
   usually inside a repository the user keeps under version control.

A pass walks the files under the source tree that match the include glob and
don't match the exclude glob, and copies each one whose destination is missing
or older. Copies keep the source's modification time, so once a file has been
copied in one direction, the reverse pass sees equal times and leaves it alone.

The sync algorithm only deals with files. Empty directories and symbolic links
aren't synced, and files are never deleted.
*/
package sync
