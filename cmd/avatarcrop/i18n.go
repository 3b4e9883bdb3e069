// Package main provides localization for the avatarcrop CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Logging":       "ログ",
		"Output":        "出力先",
		"Source":        "入力画像",
		"Preset":        "プリセット",
		"Export":        "書き出し",
		"Preview":       "プレビュー",
		"Server":        "サーバー",
		"Debug":         "デバッグ",

		// Root command
		"Crop profile pictures and preview them across platforms": "プロフィール画像を切り抜き、各サービスでの見え方をプレビュー",
		"avatarcrop pans and zooms a source image inside a square frame, exports the crop and renders how it looks on social platforms.": "avatarcropは元画像を正方形の枠内で移動・拡大し、切り抜いた画像を書き出して各SNSでの見え方を描画します。",

		// Commands
		"Crop a source image into a profile picture":                                               "元画像をプロフィール画像に切り抜く",
		"Load the source, replay an optional gesture script and write the exported picture.":        "元画像を読み込み、ジェスチャースクリプトがあれば再生して、書き出した画像を保存します。",
		"Crop and render platform previews":                                                         "切り抜いて各サービスのプレビューを描画",
		"Same as crop, then render the picture on every selected platform into a preview sheet.":    "cropと同じ処理の後、選択した全サービスでの表示をプレビューシートに描画します。",
		"Serve the interactive editor":                                                              "対話型エディタを起動",
		"Serve an editor page whose sessions run on this machine over WebSocket.":                   "このマシン上でWebSocket経由で動作するエディタページを提供します。",
		"Re-crop whenever the source file changes":                                                  "元画像が変更されるたびに切り抜き直す",
		"Run crop once, then again each time the source file is written.":                           "一度cropを実行し、その後元画像が書き込まれるたびに再実行します。",
		"Show version information":                                                                  "バージョン情報を表示",
		"avatarcrop version %s":                                                                     "avatarcrop バージョン %s",

		// Global flags
		"YAML configuration file":                                "YAML設定ファイル",
		"Environment files to load (default: .env when present)": "読み込む環境変数ファイル（デフォルト: .envがあれば読み込み）",
		"Log level (debug, info, warn, error)":                   "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                                "ログ出力をすべて抑制",

		// Output flags
		"Output file path (default: profile-picture.jpg)": "出力ファイルパス（デフォルト: profile-picture.jpg）",
		"Preview sheet PNG path":                          "プレビューシートのPNGパス",
		"Directory for one PNG per platform":              "サービスごとのPNGを書き出すディレクトリ",
		"Markdown crop report path":                       "Markdown形式の切り抜きレポートのパス",

		// Source flags
		"YAML gesture script to replay":               "再生するYAMLジェスチャースクリプト",
		"Open the source as it is":                    "元画像を正規化せずに開く",
		"Open uploads as they are":                    "アップロード画像を正規化せずに開く",
		"Quiet period before a change triggers a run": "変更検知から実行までの待機時間",

		// Preset flags
		"Preset (standard, compact), replaces file settings": "プリセット（standard, compact）、設定ファイルの値を置き換え",
		"Quality preset (low, medium, high)":                 "品質プリセット（low, medium, high）",

		// Export flags
		"Square export size in pixels":                    "書き出す正方形のサイズ（ピクセル）",
		"Export format (jpeg, png)":                       "書き出し形式（jpeg, png）",
		"JPEG quality (1-100, overrides quality preset)":  "JPEG品質（1-100、品質プリセットを上書き）",
		"Color behind transparent pixels (hex)":           "透過部分の背景色（16進数）",
		"Maximum zoom as a multiple of the fit scale":     "フィット時の倍率に対する最大ズーム倍率",

		// Preview flags
		"Platform to preview, repeatable (default: all)": "プレビューするサービス、複数指定可（デフォルト: すべて）",
		"Preview theme (light, dark)":                    "プレビューのテーマ（light, dark）",
		"Preview sheet columns (1-3)":                    "プレビューシートの列数（1-3）",
		"Preview sheet title":                            "プレビューシートのタイトル",
		"Omit the preview sheet banner":                  "プレビューシートのバナーを省略",

		// Server flags
		"Listen address (default: 127.0.0.1:8080)": "待ち受けアドレス（デフォルト: 127.0.0.1:8080）",
		"Largest accepted upload in bytes":         "受け付けるアップロードの最大バイト数",
		"Let clients load http(s) image URLs through the server": "クライアントがサーバー経由で http(s) 画像 URL を読み込めるようにする",

		// Debug flags
		"Write intermediate images":                     "中間画像を書き出す",
		"Directory for debug output (default: ./debug)": "デバッグ出力先ディレクトリ（デフォルト: ./debug）",

		// Runtime messages
		"Error: %s":                       "エラー: %s",
		"A source image is required":      "元画像を指定してください",
		"Only local files can be watched": "監視できるのはローカルファイルのみです",
		"Report written: %s":              "レポートを書き出しました: %s",
		"Crop failed: %s":                 "切り抜きに失敗しました: %s",
		"Watching %s for changes":         "%s の変更を監視しています",
		"Source changed: %s":              "元画像が変更されました: %s",
		"Open http://%s in a browser":     "ブラウザで http://%s を開いてください",
	})
}
