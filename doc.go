/*
Package tripack stores unsigned integers of 24 or 48 bits in three
parallel blocks of 8 or 16 bits each, which is more compact than
rounding values up to the next native integer width, and persists
collections of such arrays in a simple table keyed by uint64.

Array Layout

Each value occupies three consecutive blocks, most significant first:

    Array24 (W=8):
    +---------------+---------------+--------------+-------+
    | v0 bits 23-16 | v0 bits 15-8  | v0 bits 7-0  |  ...  |
    +---------------+---------------+--------------+-------+

    Array48 (W=16):
    +---------------+---------------+--------------+-------+
    | v0 bits 47-32 | v0 bits 31-16 | v0 bits 15-0 |  ...  |
    +---------------+---------------+--------------+-------+

Persisted arrays are the blocks in big-endian order, followed by the
padding the format version requires. VersionStart padded every run to
a multiple of 8 bytes, VersionByteAligned only to whole bytes.

    +---------------------+-----------------------------------+
    | 3*n blocks (W/8 ea) | padding (ByteCount - 3*n*W/8)     |
    +---------------------+-----------------------------------+

Table

A table contains a series of data blocks followed by an index and
a table footer.

    Table layout:
    +---------+---------+---------+-------------+--------------+
    | block 1 |   ...   | block n | block index | table footer |
    +---------+---------+---------+-------------+--------------+

    Block index:
    +----------------------------+--------------------+----------------------------------+--------------------------+--------+
    | last key block 1 (varint)  |  offset 1 (varint) | last key block 2 (varint,delta)  |  offset 2 (varint,delta) |   ...  |
    +----------------------------+--------------------+----------------------------------+--------------------------+--------+

    Table footer:
    +------------------------+--------------------------+------------------+
    | index offset (8 bytes) | format version (4 bytes) |  magic (8 bytes) |
    +------------------------+--------------------------+------------------+

Block

A block is a series of entries, optionally compressed, followed by a
siphash checksum of the stored bytes and a single-byte compression type
indicator.

    Block layout:
    +-----------+---------+-----------+---------------------+---------------------------+
    | entry 1   |   ...   | entry n   | checksum (8 bytes)  | compression type (1-byte) |
    +-----------+---------+-----------+---------------------+---------------------------+

    Entry:
    +------------------------+------------------------+---------------------+-----------------+
    | key (varint, delta)    | bits per value (1 byte)| value count (varint)| persisted array |
    +------------------------+------------------------+---------------------+-----------------+
*/
package tripack
