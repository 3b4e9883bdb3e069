package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":               "パイプラインを開始します",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Loading %s":                      "%s を読み込み中",
		"Loaded %dx%d image":              "%dx%d の画像を読み込みました",
		"Replaying %d gestures":           "%d 件のジェスチャーを再生中",
		"Cropped at %s":                   "%s で切り抜きました",
		"Avatar written: %s (%s)":         "プロフィール画像を書き出しました: %s (%s)",
		"Failed to load image: %s":        "画像の読み込みに失敗しました: %s",
		"Failed to edit image: %s":        "画像の編集に失敗しました: %s",
		"Failed to write output: %s":      "出力の書き込みに失敗しました: %s",

		// Preview stages
		"Calculating layout":                      "レイアウトを計算中",
		"Layout calculated: %dx%d sheet, %d rows": "レイアウト計算完了: %dx%d シート, %d 行",
		"Failed to calculate layout: %s":          "レイアウトの計算に失敗しました: %s",
		"Generating banner":                       "バナーを生成中",
		"Banner generated: %dx%d":                 "バナーを生成しました: %dx%d",
		"Failed to generate banner: %s":           "バナーの生成に失敗しました: %s",
		"Rendering %d previews":                   "%d 件のプレビューを描画中",
		"Rendering %d cards with %d workers":      "%d 枚のカードを %d ワーカーで描画中",
		"Composition completed":                   "合成が完了しました",
		"Failed to render previews: %s":           "プレビューの描画に失敗しました: %s",
		"Preview sheet written: %s":               "プレビューシートを書き出しました: %s",
		"Preview cards written to %s":             "プレビューカードを %s に書き出しました",

		// Editor session (debug/warn)
		"Opened %dx%d image, %s":             "%dx%d の画像を開きました, %s",
		"Dropped superseded load of %s":      "置き換えられた %s の読み込みを破棄しました",
		"Discarded stale export %d (current %d)": "古い書き出し %d を破棄しました (現在 %d)",
		"Export %d skipped: %v":              "書き出し %d をスキップしました: %v",
		"Rejected invalid transform %s, keeping %s": "不正な変換 %s を拒否し、%s を維持します",
		"Max scale multiplier %.2f is below 1, zoom range collapsed to the fit scale": "最大倍率係数 %.2f が1未満のため、ズーム範囲をフィット倍率に固定しました",

		// Normalizer
		"Normalized %dx%d to %dx%d (%d bytes)":                "%dx%d を %dx%d に正規化しました (%d バイト)",
		"Normalized %dx%d to %dx%d, %d bytes":                 "%dx%d を %dx%d に正規化しました, %d バイト",
		"Encoded %dx%d at quality %d is %d bytes, over budget %d": "品質 %[3]d でエンコードした %[1]dx%[2]d は %[4]d バイトで、上限 %[5]d を超えています",
		"Could not fit %dx%d under %d bytes, keeping %d bytes": "%dx%d を %d バイト以下に収められませんでした。%d バイトのまま使用します",

		// Debug sink
		"Failed to save source: %v":            "元画像の保存に失敗しました: %v",
		"Failed to save export %d: %v":         "書き出し %d の保存に失敗しました: %v",
		"Failed to save transform: %v":         "変換の保存に失敗しました: %v",
		"Failed to encode transform: %v":       "変換のエンコードに失敗しました: %v",
		"Failed to save preview card %s: %v":   "プレビューカード %s の保存に失敗しました: %v",

		// Watcher
		"Watching %s":          "%s を監視しています",
		"File event %s on %s":  "ファイルイベント %s: %s",
		"Watcher error: %v":    "監視エラー: %v",

		// WebSocket server
		"Listening on %s":               "%s で待ち受けています",
		"Client connected: %s":          "クライアントが接続しました: %s",
		"Client disconnected: %s":       "クライアントが切断しました: %s",
		"Received upload of %d bytes":   "%d バイトのアップロードを受信しました",
		"WebSocket upgrade failed: %s":  "WebSocketへの切り替えに失敗しました: %s",
		"WebSocket read error: %s":      "WebSocket読み込みエラー: %s",
		"WebSocket write error: %s":     "WebSocket書き込みエラー: %s",
		"WebSocket ping error: %s":      "WebSocket pingエラー: %s",
		"Failed to encode message: %s":  "メッセージのエンコードに失敗しました: %s",
	})
}
