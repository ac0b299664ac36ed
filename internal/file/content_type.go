package file

import "strings"

// ContentTypeDOCX is the media type of generated statistics reports.
const ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// contentTypeLabels is read-only after package initialization.
var contentTypeLabels = map[string]string{
	"application/pdf":                                                          "PDF Document",
	"application/msword":                                                       "Microsoft Word Document",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":  "Microsoft Word Document 2007",
	"image/jpeg":                                                               "JPEG Image",
	"image/png":                                                                "PNG Image",
	"text/plain":                                                               "Text",
	"text/html":                                                                "HTML Document",
	"application/json":                                                         "JavaScript Object Notation (JSON)",
	"application/javascript":                                                   "JavaScript",
	"application/postscript":                                                   "PostScript",
	"application/soap+xml":                                                     "SOAP",
	"application/xhtml+xml":                                                    "XHTML",
	"application/xml":                                                          "Extensible Markup Language (XML)",
	"application/x-yaml":                                                       "YAML",
	"audio/basic":                                                              "Basic Audio",
	"audio/mp4":                                                                "MP4 Audio",
	"audio/mpeg":                                                               "MPEG Audio",
	"audio/ogg":                                                                "Ogg Audio",
	"audio/vnd.rn-realaudio":                                                   "RealAudio",
	"audio/vnd.wave":                                                           "WAV Audio",
	"image/gif":                                                                "GIF Image",
	"image/svg+xml":                                                            "Scalable Vector Graphics (SVG)",
	"image/tiff":                                                               "Tagged Image File Format (TIFF)",
	"multipart/form-data":                                                      "Form Data",
	"text/css":                                                                 "Cascading Style Sheets (CSS)",
	"text/xml":                                                                 "XML",
	"video/mp4":                                                                "MP4 Video",
	"video/ogg":                                                                "Ogg Video",
	"video/webm":                                                               "WebM Video",
	"application/epub+zip":                                                     "EPUB Document",
	"application/gzip":                                                         "GZip Compressed Archive",
	"application/java-archive":                                                 "Java Archive (JAR)",
	"application/vnd.oasis.opendocument.text":                                  "OpenDocument Text Document",
	"application/vnd.oasis.opendocument.spreadsheet":                           "OpenDocument Spreadsheet",
	"application/vnd.oasis.opendocument.presentation":                          "OpenDocument Presentation",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "Microsoft PowerPoint Presentation 2007",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":        "Microsoft Excel Spreadsheet 2007",
	"application/zip":                                                          "ZIP Archive",
	"audio/aac":                                                                "AAC Audio",
	"audio/flac":                                                               "FLAC Audio",
	"audio/x-aiff":                                                             "AIFF Audio",
	"image/bmp":                                                                "Bitmap Image (BMP)",
	"image/webp":                                                               "WebP Image",
	"text/csv":                                                                 "Comma-Separated Values (CSV)",
	"application/vnd.ms-excel":                                                 "Microsoft Excel Spreadsheet",
	"application/vnd.ms-powerpoint":                                            "Microsoft PowerPoint Presentation",
	"application/vnd.visio":                                                    "Microsoft Visio Document",
	"application/x-7z-compressed":                                              "7-zip Archive",
	"application/x-rar-compressed":                                             "RAR Archive",
	"application/x-tar":                                                        "TAR Archive",
	"application/x-bzip":                                                       "BZip Archive",
	"application/x-bzip2":                                                      "BZip2 Archive",
	"application/x-csh":                                                        "C Shell Script",
	"application/x-sh":                                                         "Bourne Shell Script",
	"application/x-shockwave-flash":                                            "Shockwave Flash",
	"application/x-www-form-urlencoded":                                        "URL Encoded Form Data",
	"application/x-httpd-php":                                                  "PHP Script",
	"application/x-pkcs12":                                                     "PKCS#12 Archive",
	"application/x-pkcs7-certificates":                                         "PKCS#7 Certificates",
	"application/x-pkcs7-certreqresp":                                          "PKCS#7 Certificate Request Response",
	"application/x-x509-ca-cert":                                               "X.509 CA Certificate",
	"application/octet-stream":                                                 "Binary Data",
	"font/woff":                                                                "Web Open Font Format (WOFF)",
	"font/woff2":                                                               "Web Open Font Format (WOFF2)",
	"font/otf":                                                                 "OpenType Font",
	"font/ttf":                                                                 "TrueType Font",
	"application/vnd.apple.installer+xml":                                      "Apple Installer Package",
	"application/vnd.mozilla.xul+xml":                                          "XUL",
	"application/vnd.ms-fontobject":                                            "Microsoft Embedded OpenType (EOT) Font",
	"application/x-abiword":                                                    "AbiWord Document",
	"application/x-freearc":                                                    "FreeArc Archive",
	"application/x-iso9660-image":                                              "ISO Disk Image",
	"application/x-zip-compressed":                                             "ZIP Archive",
}

// ResolveContentType maps a media type to its display label. Unknown types are returned unchanged.
// Media type parameters such as "; charset=utf-8" are ignored for the lookup.
func ResolveContentType(mediaType string) string {
	if label, ok := contentTypeLabels[mediaType]; ok {
		return label
	}
	base, _, _ := strings.Cut(mediaType, ";")
	if label, ok := contentTypeLabels[strings.ToLower(strings.TrimSpace(base))]; ok {
		return label
	}
	return mediaType
}
