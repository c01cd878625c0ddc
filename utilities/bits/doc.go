// Package bits provides the MSB-first bit cursors the LZW and BZip2 codecs are
// built on.
//
// Fields are packed starting from the most significant unread bit of the
// current byte. A reader never fails hard on short input: it enters a sticky
// EOF state so a decode loop can simply stop when it sees [EOF].
package bits
